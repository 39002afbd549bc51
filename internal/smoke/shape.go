package smoke

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

// Shape is the structural signature of a JSON document: every key path with
// the kind of value found there, independent of the values themselves.
type Shape struct {
	Paths       []string
	Fingerprint string
}

// ShapeOf computes the shape of a raw JSON response.
func ShapeOf(raw string) (Shape, error) {
	if strings.TrimSpace(raw) == "" {
		return Shape{}, eris.New("response body is empty")
	}

	if !gjson.Valid(raw) {
		return Shape{}, eris.New("response body is not valid json")
	}

	seen := make(map[string]struct{})
	walkShape(gjson.Parse(raw), "$", seen)

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	sum := sha256.Sum256([]byte(strings.Join(paths, "\n")))

	return Shape{Paths: paths, Fingerprint: hex.EncodeToString(sum[:])}, nil
}

// Equal reports whether two shapes describe the same structure.
func (s Shape) Equal(other Shape) bool {
	return s.Fingerprint == other.Fingerprint
}

func walkShape(value gjson.Result, path string, seen map[string]struct{}) {
	switch {
	case value.IsObject():
		empty := true
		value.ForEach(func(key, child gjson.Result) bool {
			empty = false
			walkShape(child, path+"."+key.String(), seen)
			return true
		})
		if empty {
			seen[path+":object"] = struct{}{}
		}
	case value.IsArray():
		empty := true
		value.ForEach(func(_, child gjson.Result) bool {
			empty = false
			walkShape(child, path+"[]", seen)
			return true
		})
		if empty {
			seen[path+":array"] = struct{}{}
		}
	default:
		seen[path+":"+scalarKind(value.Type)] = struct{}{}
	}
}

func scalarKind(kind gjson.Type) string {
	switch kind {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "bool"
	default:
		return "null"
	}
}
