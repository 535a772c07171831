// Package obj writes triangle meshes as Wavefront OBJ files, the lowest
// common denominator for inspecting generated geometry in external
// tools.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/stonefell/petrogen/internal/geometry"
)

// Object is one named mesh within an OBJ file, offset into world space.
type Object struct {
	Name   string
	Mesh   *geometry.Mesh
	Offset [3]float32
}

// Write writes the objects as a single OBJ document. Vertex normals are
// emitted alongside positions; face indices are global per OBJ
// convention (1-based, shared across objects).
func Write(w io.Writer, objects []Object) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# petrogen rock meshes")

	vertexBase := 1
	for _, obj := range objects {
		if obj.Mesh == nil || len(obj.Mesh.Vertices) == 0 {
			continue
		}
		name := obj.Name
		if name == "" {
			name = "rock"
		}
		fmt.Fprintf(bw, "o %s\n", name)

		for _, v := range obj.Mesh.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n",
				v.Position[0]+obj.Offset[0],
				v.Position[1]+obj.Offset[1],
				v.Position[2]+obj.Offset[2],
			)
		}
		for _, v := range obj.Mesh.Vertices {
			fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
		}

		indices := obj.Mesh.Indices
		for i := 0; i+2 < len(indices); i += 3 {
			a := vertexBase + int(indices[i])
			b := vertexBase + int(indices[i+1])
			c := vertexBase + int(indices[i+2])
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}

		vertexBase += len(obj.Mesh.Vertices)
	}

	return bw.Flush()
}

// WriteFile writes the objects to the given path.
func WriteFile(path string, objects []Object) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, objects); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
