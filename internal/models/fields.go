package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Optional is a nullable request field. Set reports whether the key was
// present at all; a present null leaves Value nil.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: &v} }

func Null[T any]() Optional[T] { return Optional[T]{Set: true} }

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if isNull(b) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) apply(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

// DateInput is a date request field. A value that is not a YYYY-MM-DD date
// is kept as Invalid instead of failing the whole body.
type DateInput struct {
	Set     bool
	Value   *Date
	Invalid bool
}

func SomeDate(d Date) DateInput { return DateInput{Set: true, Value: &d} }

func (d *DateInput) UnmarshalJSON(b []byte) error {
	*d = DateInput{Set: true}
	var parsed Date
	if err := parsed.UnmarshalJSON(b); err != nil {
		d.Invalid = true
		return nil
	}
	if !parsed.IsZero() {
		d.Value = &parsed
	}
	return nil
}

func (d DateInput) applyPtr(dst **Date) {
	if d.Set && !d.Invalid {
		*dst = d.Value
	}
}

func (d DateInput) apply(dst *Date) {
	if !d.Set || d.Invalid {
		return
	}
	if d.Value == nil {
		*dst = Date{}
		return
	}
	*dst = *d.Value
}

// FlexString is a text field that also accepts a bare JSON number, e.g.
// "siblings": 2.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

func isNull(b []byte) bool {
	return string(bytes.TrimSpace(b)) == "null"
}
