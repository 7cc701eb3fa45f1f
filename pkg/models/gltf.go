package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/scene"
)

// ErrNoGeometry is returned for documents without triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads glTF/GLB documents into Mesh format. Node transforms
// are not applied; every mesh is read in its own coordinates.
type GLTFLoader struct {
	CalculateNormals bool // Fill in normals when the source has none
	SmoothNormals    bool // Averaged rather than per-face normals
	Normalize        bool // Center on the origin and scale to unit size
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		Normalize:        true,
	}
}

// Load reads a .gltf or .glb file with the default options.
func Load(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadModule reads a model file and returns it as a scene module named
// after the file.
func LoadModule(path string) (*scene.Module, error) {
	mesh, err := Load(path)
	if err != nil {
		return nil, err
	}
	return mesh.Module(), nil
}

// Load opens the document at path and converts it.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := l.FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// FromDocument converts every triangle primitive of doc into a single mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Materials = readMaterials(doc)

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	if l.Normalize {
		mesh.Normalize()
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

func readMaterials(doc *gltf.Document) []Material {
	materials := make([]Material, 0, len(doc.Materials))
	for _, gm := range doc.Materials {
		m := Material{
			Name:        gm.Name,
			BaseColor:   [4]float64{1, 1, 1, 1},
			Metallic:    1,
			Roughness:   1,
			DoubleSided: gm.DoubleSided,
		}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				m.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				m.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				m.Roughness = *pbr.RoughnessFactor
			}
		}
		materials = append(materials, m)
	}
	return materials
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return doc.Accessors[i], nil
}

// processMesh extracts geometry from a glTF mesh. Points and lines are
// skipped.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			acr, err := accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
			normals, err = modeler.ReadNormal(doc, acr, nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := Vertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			acr, err := accessor(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			indices, err = modeler.ReadIndices(doc, acr, nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// glTF winding is kept: counter-clockwise loops face the viewer, so
		// face normals point out of the model.
		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{Material: material}
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					return fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
				}
				f.V[k] = baseVertex + idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
