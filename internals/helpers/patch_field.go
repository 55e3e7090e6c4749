package helper

import "encoding/json"

/*
PatchField adalah util 3-state untuk PATCH:
- field tidak dikirim  -> Present=false
- field dikirim nilai  -> Present=true,  Value != nil
- field dikirim null   -> Present=true,  Value == nil
Untuk kolom NOT NULL controller harus menolak null sebelum ToUpdates.
*/
type PatchField[T any] struct {
	Present bool `json:"-"`
	Value   *T   `json:"-"`
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) IsNull() bool       { return p.Present && p.Value == nil }
func (p PatchField[T]) ShouldUpdate() bool { return p.Present }

// PutUpdate isi map updates mengikuti semantik PatchField.
func PutUpdate[T any](upd map[string]any, key string, f *PatchField[T]) {
	if f == nil || !f.ShouldUpdate() {
		return
	}
	if f.IsNull() {
		upd[key] = nil
		return
	}
	upd[key] = *f.Value
}
