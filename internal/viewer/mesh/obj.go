package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed OBJ record.
type ParseError struct {
	Name string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Name, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadOBJ reads an OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f, path)
}

// ParseOBJ reads OBJ data and returns its faces as de-indexed triangles.
// Only vertex positions and faces are used; polygons are fan-triangulated.
// name is used as the mesh path and in error messages.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	vs := make([][3]float32, 0, 1024)
	positions := make([]float32, 0, 4096)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, &ParseError{name, lineNo, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields)-1)}
			}
			var v [3]float32
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, &ParseError{name, lineNo, err}
				}
				v[i] = float32(f)
			}
			vs = append(vs, v)

		case "f":
			args := fields[1:]
			if len(args) < 3 {
				return nil, &ParseError{name, lineNo, fmt.Errorf("face needs 3 vertices, got %d", len(args))}
			}
			idx := make([]int, len(args))
			for i, arg := range args {
				n, err := resolveIndex(arg, len(vs))
				if err != nil {
					return nil, &ParseError{name, lineNo, err}
				}
				idx[i] = n
			}
			for i := 1; i < len(idx)-1; i++ {
				for _, k := range [3]int{idx[0], idx[i], idx[i+1]} {
					v := vs[k]
					positions = append(positions, v[0], v[1], v[2])
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoGeometry)
	}

	return New(name, positions), nil
}

// resolveIndex turns the position part of a face vertex ("7", "7/1",
// "7//3", "-1/2/3") into a zero-based index into count known vertices.
func resolveIndex(arg string, count int) (int, error) {
	s, _, _ := strings.Cut(arg, "/")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", arg)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += count
	default:
		return 0, fmt.Errorf("face index 0 is invalid")
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("face index %q out of range (%d vertices)", arg, count)
	}
	return n, nil
}
