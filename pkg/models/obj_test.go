package models

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/math3d"
)

func parseOBJ(t *testing.T, l *OBJLoader, src string) *Mesh {
	t.Helper()
	mesh, err := l.Parse(strings.NewReader(src), "test.obj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return mesh
}

func TestOBJInvertsY(t *testing.T) {
	mesh := parseOBJ(t, NewOBJLoader(), "v 1 2 3\nv 0 0 0\nv 1 0 0\nf 1 2 3\n")

	got := mesh.Triangles[0].V[0].Position
	if want := math3d.V3(1, -2, 3); got != want {
		t.Errorf("vertex = %v, want %v", got, want)
	}
}

func TestOBJWindingSwap(t *testing.T) {
	src := `# triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	mesh := parseOBJ(t, NewOBJLoader(), src)
	if mesh.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}

	tri := mesh.Triangles[0]
	want := [3]math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(0, -1, 0), // file vertex 3
		math3d.V3(1, 0, 0),  // file vertex 2
	}
	for i := range want {
		if tri.V[i].Position != want[i] {
			t.Errorf("V[%d] = %v, want %v", i, tri.V[i].Position, want[i])
		}
	}
}

func TestOBJFaceTokens(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\n"

	tests := []struct {
		name     string
		face     string
		accepted int
		rejected int
	}{
		{"plain", "f 1 2 3", 1, 0},
		{"with attributes", "f 1/4/7 2/5/8 3/6/9", 1, 0},
		{"position and normal", "f 1//1 2//2 3//3", 1, 0},
		{"quad uses first three", "f 1 2 3 1", 1, 0},
		{"zero index", "f 0 1 2", 0, 1},
		{"negative index", "f -1 -2 -3", 0, 1},
		{"forward reference", "f 1 2 4", 0, 1},
		{"too few indices", "f 1 2", 0, 1},
		{"not a number", "f a b c", 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh := parseOBJ(t, NewOBJLoader(), header+tc.face+"\n")
			if mesh.TriangleCount() != tc.accepted {
				t.Errorf("TriangleCount = %d, want %d", mesh.TriangleCount(), tc.accepted)
			}
			if mesh.FacesRejected != tc.rejected {
				t.Errorf("FacesRejected = %d, want %d", mesh.FacesRejected, tc.rejected)
			}
		})
	}
}

func TestOBJMalformedNumbersReadAsZero(t *testing.T) {
	mesh := parseOBJ(t, NewOBJLoader(), "v abc 2 \nv 1 1 1\nv 2 2 2\nf 1 2 3\n")

	got := mesh.Triangles[0].V[0].Position
	if want := math3d.V3(0, -2, 0); got != want {
		t.Errorf("vertex = %v, want %v", got, want)
	}
}

func TestOBJOutOfRangeNumbersSaturate(t *testing.T) {
	mesh := parseOBJ(t, NewOBJLoader(), "v 1e40 -1e40 0\nv 1 1 1\nv 2 2 2\nf 1 2 3\n")

	got := mesh.Triangles[0].V[0].Position
	if !math32.IsInf(got.X, 1) || !math32.IsInf(got.Y, 1) || got.Z != 0 {
		t.Errorf("vertex = %v, want (+Inf, +Inf, 0)", got)
	}
}

func TestOBJIgnoresOtherRecords(t *testing.T) {
	src := `mtllib cube.mtl
o Cube
vn 0 0 1
vt 0.5 0.5
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
s off
f 1 2 3
`
	mesh := parseOBJ(t, NewOBJLoader(), src)
	if mesh.VerticesRead != 3 {
		t.Errorf("VerticesRead = %d, want 3", mesh.VerticesRead)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestOBJCapacity(t *testing.T) {
	var b strings.Builder
	for range 5 {
		b.WriteString("v 0 0 0\nv 1 0 0\nv 0 1 0\n")
	}
	for range 5 {
		b.WriteString("f 1 2 3\n")
	}

	t.Run("triangles", func(t *testing.T) {
		mesh := parseOBJ(t, &OBJLoader{MaxTriangles: 3}, b.String())
		if mesh.TriangleCount() != 3 {
			t.Errorf("TriangleCount = %d, want 3", mesh.TriangleCount())
		}
		if mesh.FacesDropped != 2 {
			t.Errorf("FacesDropped = %d, want 2", mesh.FacesDropped)
		}
		if !mesh.Truncated() {
			t.Error("Truncated() = false, want true")
		}
	})

	t.Run("vertices", func(t *testing.T) {
		mesh := parseOBJ(t, &OBJLoader{MaxVertices: 4}, b.String())
		if mesh.VerticesRead != 4 {
			t.Errorf("VerticesRead = %d, want 4", mesh.VerticesRead)
		}
		if mesh.VerticesDropped != 11 {
			t.Errorf("VerticesDropped = %d, want 11", mesh.VerticesDropped)
		}
	})

	t.Run("unlimited", func(t *testing.T) {
		mesh := parseOBJ(t, &OBJLoader{}, b.String())
		if mesh.TriangleCount() != 5 || mesh.Truncated() {
			t.Errorf("TriangleCount = %d, Truncated = %v", mesh.TriangleCount(), mesh.Truncated())
		}
	})
}

func TestOBJColorsParallelTriangles(t *testing.T) {
	mesh := parseOBJ(t, NewOBJLoader(), "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nf 3 2 1\n")
	if len(mesh.Colors) != mesh.TriangleCount() {
		t.Fatalf("len(Colors) = %d, want %d", len(mesh.Colors), mesh.TriangleCount())
	}
	for i, c := range mesh.Colors {
		if c != math3d.V4(1, 1, 1, 1) {
			t.Errorf("Colors[%d] = %v, want white", i, c)
		}
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	mesh, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if mesh != nil {
		t.Error("expected nil mesh on error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("obj", func(t *testing.T) {
		var progress strings.Builder
		body := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
		opts := DefaultOptions()
		opts.Progress = &progress

		mesh, err := Load(write("tri.OBJ", body), opts)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if mesh.Name != "tri.OBJ" || mesh.TriangleCount() != 1 {
			t.Errorf("got %q with %d triangles", mesh.Name, mesh.TriangleCount())
		}
		if progress.Len() != len(body) {
			t.Errorf("progress saw %d bytes, want %d", progress.Len(), len(body))
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Load(write("empty.obj", "# nothing\n"), DefaultOptions())
		if !errors.Is(err, ErrEmptyMesh) {
			t.Errorf("err = %v, want ErrEmptyMesh", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Load(write("model.stl", "solid"), DefaultOptions())
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})
}

func BenchmarkOBJParse(b *testing.B) {
	var sb strings.Builder
	for i := range 1000 {
		sb.WriteString("v 0.25 -1.5 3.75\nv 1 0 0\nv 0 1 0\n")
		base := i*3 + 1
		sb.WriteString("f ")
		sb.WriteString(strings.Join([]string{strconv.Itoa(base), strconv.Itoa(base + 1), strconv.Itoa(base + 2)}, " "))
		sb.WriteString("\n")
	}
	src := sb.String()
	l := NewOBJLoader()

	for b.Loop() {
		_, _ = l.Parse(strings.NewReader(src), "bench.obj")
	}
}
