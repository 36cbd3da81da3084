package descriptor

import (
	"fmt"
	"strconv"
	"strings"

	"figure-assembler/internal/mathutil"
)

// Tuple3 parses the first "(x,y,z)" group found in a field.
func Tuple3(field string) (mathutil.Vec3, error) {
	open := strings.IndexByte(field, '(')
	end := strings.IndexByte(field, ')')
	if open < 0 || end < open {
		return mathutil.Vec3{}, fmt.Errorf("descriptor: expected (x,y,z) tuple in %q", field)
	}
	parts := strings.Split(field[open+1:end], ",")
	if len(parts) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("descriptor: expected 3 components in %q", field)
	}
	var v mathutil.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mathutil.Vec3{}, fmt.Errorf("descriptor: bad component %q in %q", p, field)
		}
		v[i] = f
	}
	return v, nil
}

// Tuple2 parses a "(u,v)" pair; extra components are ignored,
// missing ones default to zero (authoring data is sloppy here).
func Tuple2(field string) [2]float64 {
	s := strings.TrimSpace(field)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	var out [2]float64
	for i := 0; i < 2 && i < len(parts); i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return [2]float64{}
		}
		out[i] = f
	}
	return out
}
