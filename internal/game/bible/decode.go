package bible

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// CharacterPatch is a partial update to an existing character. Nil fields are
// left untouched; Attributes and Reputation are merged key by key.
type CharacterPatch struct {
	Description     *string        `json:"description,omitempty" jsonschema:"new description"`
	Backstory       *string        `json:"backstory,omitempty" jsonschema:"new backstory"`
	CurrentLocation *string        `json:"current_location,omitempty" jsonschema:"new current location"`
	Goals           *[]string      `json:"goals,omitempty" jsonschema:"replacement goal list"`
	StatusEffects   *[]string      `json:"status_effects,omitempty" jsonschema:"replacement status effect list"`
	Skills          *[]Skill       `json:"skills,omitempty" jsonschema:"replacement skill list"`
	Inventory       *[]ItemInput   `json:"inventory,omitempty" jsonschema:"replacement inventory"`
	Attributes      map[string]int `json:"attributes,omitempty" jsonschema:"attribute values to set"`
	Reputation      map[string]int `json:"reputation,omitempty" jsonschema:"reputation scores to set"`
}

// PatchableFields lists the keys a character patch may contain.
var PatchableFields = []string{
	"description", "backstory", "current_location", "goals", "status_effects",
	"skills", "inventory", "attributes", "reputation",
}

// IsEmpty reports whether the patch changes nothing.
func (p CharacterPatch) IsEmpty() bool {
	return p.Description == nil && p.Backstory == nil && p.CurrentLocation == nil &&
		p.Goals == nil && p.StatusEffects == nil && p.Skills == nil && p.Inventory == nil &&
		len(p.Attributes) == 0 && len(p.Reputation) == 0
}

// Apply returns in with the patch applied. in is not modified.
func (p CharacterPatch) Apply(in CharacterInput) CharacterInput {
	out := in
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Backstory != nil {
		out.Backstory = *p.Backstory
	}
	if p.CurrentLocation != nil {
		out.CurrentLocation = *p.CurrentLocation
	}
	if p.Goals != nil {
		out.Goals = slices.Clone(*p.Goals)
	}
	if p.StatusEffects != nil {
		out.StatusEffects = slices.Clone(*p.StatusEffects)
	}
	if p.Skills != nil {
		out.Skills = slices.Clone(*p.Skills)
	}
	if p.Inventory != nil {
		out.Inventory = slices.Clone(*p.Inventory)
	}
	if len(p.Attributes) > 0 {
		out.Attributes = maps.Clone(in.Attributes)
		if out.Attributes == nil {
			out.Attributes = make(map[string]int, len(p.Attributes))
		}
		maps.Copy(out.Attributes, p.Attributes)
	}
	if len(p.Reputation) > 0 {
		out.Reputation = maps.Clone(in.Reputation)
		if out.Reputation == nil {
			out.Reputation = make(map[string]int, len(p.Reputation))
		}
		maps.Copy(out.Reputation, p.Reputation)
	}
	return out
}

// DecodeCharacter converts a loosely typed record (a decoded JSON object or a
// protobuf Struct) into a CharacterInput.
//
// Postcondition: Returns UNKNOWN_FIELD for keys that are not character fields
// and INVALID_ATTRIBUTE for values of the wrong shape.
func DecodeCharacter(raw map[string]any) (CharacterInput, error) {
	var in CharacterInput
	if err := decodeStrict("character", raw, &in); err != nil {
		return CharacterInput{}, err
	}
	return in, nil
}

// DecodeCharacterPatch converts a loosely typed record into a CharacterPatch.
// Keys outside PatchableFields, including immutable ones such as name and
// race, are rejected with UNKNOWN_FIELD.
func DecodeCharacterPatch(raw map[string]any) (CharacterPatch, error) {
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if !slices.Contains(PatchableFields, key) {
			field := "patch." + key
			return CharacterPatch{}, NewError(KindUnknownField, field,
				"%s is not a patchable character field; allowed: %s", key, strings.Join(PatchableFields, ", "))
		}
	}
	var p CharacterPatch
	if err := decodeStrict("patch", raw, &p); err != nil {
		return CharacterPatch{}, err
	}
	return p, nil
}

func decodeStrict(path string, raw map[string]any, out any) error {
	if err := checkIntegers(path, raw, reflect.TypeOf(out).Elem()); err != nil {
		return err
	}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Metadata:   &md,
		Result:     out,
		DecodeHook: exactIntHook(path),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return NewError(KindInvalidAttribute, path, "decoding %s: %v", path, err)
	}
	if len(md.Unused) > 0 {
		unused := slices.Sorted(slices.Values(md.Unused))
		field := path + "." + unused[0]
		return NewError(KindUnknownField, field, "%s is not a known field", field)
	}
	return nil
}

// exactInt converts f to an int only when no information is lost.
func exactInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// exactIntHook stops mapstructure from truncating floats into int fields.
// Numbers arriving from JSON or protobuf Structs are always float64.
func exactIntHook(path string) mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.Int && to.Kind() != reflect.Int64 {
			return data, nil
		}
		var f float64
		switch from.Kind() {
		case reflect.Float64, reflect.Float32:
			f = reflect.ValueOf(data).Float()
		default:
			return data, nil
		}
		n, ok := exactInt(f)
		if !ok {
			return nil, NewError(KindInvalidAttribute, path, "%s: %v is not a whole number in range", path, f)
		}
		return n, nil
	}
}

// checkIntegers walks raw alongside the target type and rejects any number
// bound for an int field that is fractional or out of range, naming the
// offending field.
func checkIntegers(path string, raw any, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		f, ok := raw.(float64)
		if !ok {
			if f32, isF32 := raw.(float32); isF32 {
				f, ok = float64(f32), true
			}
		}
		if ok {
			if _, exact := exactInt(f); !exact {
				return NewError(KindInvalidAttribute, path, "%s must be a whole number in range, got %v", path, f)
			}
		}
	case reflect.Struct:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		for i := range t.NumField() {
			field := t.Field(i)
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			if v, present := m[name]; present {
				if err := checkIntegers(path+"."+name, v, field.Type); err != nil {
					return err
				}
			}
		}
	case reflect.Map:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		for _, key := range slices.Sorted(maps.Keys(m)) {
			if err := checkIntegers(path+"."+key, m[key], t.Elem()); err != nil {
				return err
			}
		}
	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok {
			return nil
		}
		for i, v := range items {
			if err := checkIntegers(fmt.Sprintf("%s[%d]", path, i), v, t.Elem()); err != nil {
				return err
			}
		}
	}
	return nil
}
