package rw

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/rwkit/pkg/math"
)

// DFF format errors.
var (
	ErrInvalidMaterialIndex = errors.New("invalid material alias index")
	ErrInvalidParentFrame   = errors.New("invalid parent frame index")
	ErrInvalidGeometryIndex = errors.New("invalid atomic geometry index")
)

// Atomic geometry indices are sparse but a corrupt index must not drive
// an unbounded table allocation.
const maxGeometryIndex = 1 << 20

// ModelType is the coarse classification of a decoded model. It is
// derived from the decoded data, not stored on disk.
type ModelType int

const (
	ModelGeneric ModelType = iota
	ModelSkinned
	ModelVehicle
)

// String returns the classification name.
func (t ModelType) String() string {
	switch t {
	case ModelGeneric:
		return "Generic"
	case ModelSkinned:
		return "Skinned"
	case ModelVehicle:
		return "Vehicle"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// MarshalJSON serializes the classification as its name.
func (t ModelType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// DFF is a fully decoded model clump: skeleton, geometries, attachment
// bindings and auxiliary metadata. It owns all data beneath it; nothing
// references the input buffer after ParseDFF returns.
type DFF struct {
	ModelType     ModelType     `json:"model_type"`
	Version       string        `json:"version"`
	VersionNumber uint32        `json:"version_number"`
	GeometryList  *GeometryList `json:"geometry_list"`
	FrameList     *FrameList    `json:"frame_list"`
	Atomics       []uint32      `json:"atomics"`
	Dummies       []string      `json:"dummies"`
	AnimNodes     []AnimNode    `json:"anim_nodes"`
}

// FrameList is the model's skeleton: an ordered frame hierarchy.
type FrameList struct {
	FrameCount uint32  `json:"frame_count"`
	Frames     []Frame `json:"frames"`
}

// Frame is one skeleton node.
type Frame struct {
	RotationMatrix math.Mat3 `json:"rotation_matrix"`
	Offset         math.Vec3 `json:"coordinates_offset"`
	ParentFrame    int32     `json:"parent_frame"`
}

// AnimNode describes a clump's bone hierarchy.
type AnimNode struct {
	BoneID    int32  `json:"bone_id"`
	BoneCount int32  `json:"bones_count"`
	Bones     []Bone `json:"bones"`
}

// Bone is one entry of an AnimNode.
type Bone struct {
	BoneID    int32 `json:"bone_id"`
	BoneIndex int32 `json:"bone_index"`
	Flags     int32 `json:"flags"`
}

// GeometryList holds the model's geometries in declaration order.
type GeometryList struct {
	GeometryCount uint32     `json:"geometric_object_count"`
	Geometries    []Geometry `json:"geometries"`
}

// Geometry is one renderable mesh with its materials, batches and
// optional skin.
type Geometry struct {
	VertexColors   []Color      `json:"vertex_color_information"`
	TexCoordCount  uint8        `json:"texture_coordinates_count"`
	TexCoordSets   [][]TexCoord `json:"texture_mapping_information"`
	HasVertices    bool         `json:"has_vertices"`
	HasNormals     bool         `json:"has_normals"`
	Triangles      []Triangle   `json:"triangle_information"`
	Vertices       []math.Vec3  `json:"vertex_information"`
	Normals        []math.Vec3  `json:"normal_information"`
	BoundingSphere Sphere       `json:"bounding_sphere"`
	MaterialList   MaterialList `json:"material_list"`
	BinMesh        BinMesh      `json:"bin_mesh"`
	Skin           *Skin        `json:"skin"`
}

// MaterialList holds a geometry's materials in decode order. Aliased
// entries are independent deep copies, so the tree stays acyclic.
type MaterialList struct {
	MaterialInstanceCount uint32     `json:"material_instance_count"`
	Materials             []Material `json:"material_data"`
}

// Material is a surface description with an optional texture reference.
type Material struct {
	Color      Color `json:"color"`
	IsTextured bool  `json:"is_textured"`
	// Surface coefficients are only encoded on sufficiently new
	// section versions; HasSurfaceProps reports their presence.
	HasSurfaceProps bool     `json:"has_surface_props"`
	Ambient         float32  `json:"ambient"`
	Specular        float32  `json:"specular"`
	Diffuse         float32  `json:"diffuse"`
	Texture         *Texture `json:"texture"`
}

func (m Material) clone() Material {
	out := m
	if m.Texture != nil {
		tex := *m.Texture
		out.Texture = &tex
	}
	return out
}

// Texture is a material's texture reference.
type Texture struct {
	Filtering     uint8  `json:"texture_filtering"`
	UAddressing   uint8  `json:"u_addressing"`
	VAddressing   uint8  `json:"v_addressing"`
	UsesMipLevels bool   `json:"uses_mip_levels"`
	Name          string `json:"texture_name"`
}

// BinMesh is a geometry's render-batch list grouped by material.
type BinMesh struct {
	MeshCount uint32 `json:"mesh_count"`
	Meshes    []Mesh `json:"meshes"`
}

// Mesh is one batch: a material index and its vertex indices.
type Mesh struct {
	MaterialIndex uint32   `json:"material_index"`
	IndexCount    uint32   `json:"index_count"`
	Indices       []uint32 `json:"indices"`
}

// Skin holds per-vertex bone influences plus inverse bind matrices.
// Index and weight rows always carry four slots; unused slots are
// zero-padded regardless of MaxWeightsPerVertex.
type Skin struct {
	BoneCount           uint8        `json:"bone_count"`
	UsedBoneCount       uint8        `json:"used_bone_count"`
	MaxWeightsPerVertex uint8        `json:"max_weights_per_vertex"`
	VertexBoneIndices   [][4]uint8   `json:"bone_vertex_indices"`
	VertexWeights       [][4]float32 `json:"vertex_weights"`
	InverseBoneMatrices []math.Mat4  `json:"inverse_bone_matrices"`
}

// Atomic binds one geometry instance to one skeleton frame.
type Atomic struct {
	FrameIndex    uint32 `json:"frame_index"`
	GeometryIndex uint32 `json:"geometry_index"`
	Flags         uint32 `json:"flags"`
}

// ParseDFF decodes a model clump from raw bytes in a single forward
// pass over the section tree. Unknown section types are skipped by
// declared length.
func ParseDFF(data []byte) (*DFF, error) {
	s := NewByteStream(data)
	dff := &DFF{}

	for s.Pos() < s.Size() {
		header, err := readSectionHeader(s)
		if err != nil {
			return nil, err
		}
		if header.Type == 0 {
			break
		}
		if header.Size == 0 {
			continue
		}

		switch header.Type {
		case SectionClump:
			dff.VersionNumber = UnpackVersion(header.Version)
			dff.Version = VersionName(dff.VersionNumber)
		case SectionFrameList:
			frameList, err := readFrameList(s)
			if err != nil {
				return nil, fmt.Errorf("reading frame list: %w", err)
			}
			dff.FrameList = frameList
		case SectionExtension:
			extension, err := readSectionHeader(s)
			if err != nil {
				return nil, err
			}
			switch extension.Type {
			case SectionNodeName:
				name, err := s.ReadString(uint64(extension.Size))
				if err != nil {
					return nil, fmt.Errorf("reading node name: %w", err)
				}
				dff.Dummies = append(dff.Dummies, name)
			case SectionAnim:
				node, err := readAnimNode(s)
				if err != nil {
					return nil, fmt.Errorf("reading anim node: %w", err)
				}
				dff.AnimNodes = append(dff.AnimNodes, *node)
			default:
				s.Skip(int64(extension.Size))
			}
		case SectionGeometryList:
			geometryList, err := readGeometryList(s)
			if err != nil {
				return nil, fmt.Errorf("reading geometry list: %w", err)
			}
			dff.GeometryList = geometryList
		case SectionAtomic:
			atomic, err := readAtomic(s)
			if err != nil {
				return nil, fmt.Errorf("reading atomic: %w", err)
			}
			if atomic.GeometryIndex > maxGeometryIndex {
				return nil, fmt.Errorf("%w: %d", ErrInvalidGeometryIndex, atomic.GeometryIndex)
			}
			for uint32(len(dff.Atomics)) <= atomic.GeometryIndex {
				dff.Atomics = append(dff.Atomics, 0)
			}
			dff.Atomics[atomic.GeometryIndex] = atomic.FrameIndex
		case SectionNodeName:
			name, err := s.ReadString(uint64(header.Size))
			if err != nil {
				return nil, fmt.Errorf("reading node name: %w", err)
			}
			dff.Dummies = append(dff.Dummies, name)
		case SectionAnim:
			node, err := readAnimNode(s)
			if err != nil {
				return nil, fmt.Errorf("reading anim node: %w", err)
			}
			dff.AnimNodes = append(dff.AnimNodes, *node)
		default:
			s.Skip(int64(header.Size))
		}
	}

	dff.ModelType = classifyModel(dff)
	return dff, nil
}

// ParseDFFFile decodes a model clump from disk.
func ParseDFFFile(path string) (*DFF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DFF file: %w", err)
	}
	return ParseDFF(data)
}

// classifyModel applies the model-type heuristic over decoded data:
// skinned beats vehicle beats generic.
func classifyModel(dff *DFF) ModelType {
	if dff.GeometryList != nil {
		for i := range dff.GeometryList.Geometries {
			if dff.GeometryList.Geometries[i].Skin != nil {
				return ModelSkinned
			}
		}
	}
	for _, dummy := range dff.Dummies {
		lower := strings.ToLower(dummy)
		if strings.Contains(lower, "wheel") || strings.Contains(lower, "chassis") {
			return ModelVehicle
		}
	}
	return ModelGeneric
}

func readFrameList(s *ByteStream) (*FrameList, error) {
	if _, err := readSectionHeader(s); err != nil { // Struct
		return nil, err
	}

	frameCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	// 9 matrix floats, 3 offset floats, parent index, internal flags.
	if err := s.checkCount(uint64(frameCount), 56); err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, frameCount)
	for i := uint32(0); i < frameCount; i++ {
		matrix, err := readMat3(s)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		offset, err := readVec3(s)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		parent, err := s.ReadI32()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		s.Skip(4) // matrix creation flags, unused

		// The hierarchy is forward-declared: a parent must precede
		// its children. The format does not enforce this, so reject
		// it here before consumers build transform chains.
		if parent >= int32(i) {
			return nil, fmt.Errorf("%w: frame %d references parent %d", ErrInvalidParentFrame, i, parent)
		}

		frames = append(frames, Frame{
			RotationMatrix: matrix,
			Offset:         offset,
			ParentFrame:    parent,
		})
	}

	return &FrameList{FrameCount: frameCount, Frames: frames}, nil
}

func readAtomic(s *ByteStream) (Atomic, error) {
	if _, err := readSectionHeader(s); err != nil { // Struct
		return Atomic{}, err
	}

	frameIndex, err := s.ReadU32()
	if err != nil {
		return Atomic{}, err
	}
	geometryIndex, err := s.ReadU32()
	if err != nil {
		return Atomic{}, err
	}
	flags, err := s.ReadU32()
	if err != nil {
		return Atomic{}, err
	}
	s.Skip(4) // unused

	return Atomic{FrameIndex: frameIndex, GeometryIndex: geometryIndex, Flags: flags}, nil
}

func readGeometryList(s *ByteStream) (*GeometryList, error) {
	header, err := readSectionHeader(s) // Struct
	if err != nil {
		return nil, err
	}

	geometryCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	// Each geometry carries at least its two wrapper headers.
	if err := s.checkCount(uint64(geometryCount), 24); err != nil {
		return nil, err
	}

	// Conditional fields inside each geometry are gated on the list's
	// version, not a per-geometry one.
	versionNumber := UnpackVersion(header.Version)

	geometries := make([]Geometry, 0, geometryCount)
	for i := uint32(0); i < geometryCount; i++ {
		if _, err := readSectionHeader(s); err != nil { // Geometry
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		if _, err := readSectionHeader(s); err != nil { // Struct
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		geometry, err := readGeometry(s, versionNumber)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		geometries = append(geometries, *geometry)
	}

	return &GeometryList{GeometryCount: geometryCount, Geometries: geometries}, nil
}

func readGeometry(s *ByteStream, versionNumber uint32) (*Geometry, error) {
	flags, err := s.ReadU16()
	if err != nil {
		return nil, err
	}
	texCoordCount, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	if _, err := s.ReadU8(); err != nil { // native geometry flags
		return nil, err
	}
	triangleCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	vertexCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := s.ReadU32(); err != nil { // morph target count
		return nil, err
	}

	if versionNumber < 0x34000 {
		s.Skip(12) // legacy ambient, specular, diffuse
	}

	isTexturedUV1 := flags&(1<<2) != 0
	isPrelit := flags&(1<<3) != 0
	isTexturedUV2 := flags&(1<<7) != 0

	geometry := &Geometry{TexCoordCount: texCoordCount}

	if isPrelit {
		if err := s.checkCount(uint64(vertexCount), 4); err != nil {
			return nil, err
		}
		geometry.VertexColors = make([]Color, 0, vertexCount)
		for i := uint32(0); i < vertexCount; i++ {
			color, err := readColor(s)
			if err != nil {
				return nil, fmt.Errorf("vertex color %d: %w", i, err)
			}
			geometry.VertexColors = append(geometry.VertexColors, color)
		}
	}

	if isTexturedUV1 || isTexturedUV2 {
		if err := s.checkCount(uint64(texCoordCount)*uint64(vertexCount), 8); err != nil {
			return nil, err
		}
		geometry.TexCoordSets = make([][]TexCoord, 0, texCoordCount)
		for set := uint8(0); set < texCoordCount; set++ {
			coords := make([]TexCoord, 0, vertexCount)
			for i := uint32(0); i < vertexCount; i++ {
				u, err := s.ReadF32()
				if err != nil {
					return nil, fmt.Errorf("texture coordinate set %d: %w", set, err)
				}
				v, err := s.ReadF32()
				if err != nil {
					return nil, fmt.Errorf("texture coordinate set %d: %w", set, err)
				}
				coords = append(coords, TexCoord{U: u, V: v})
			}
			geometry.TexCoordSets = append(geometry.TexCoordSets, coords)
		}
	}

	if err := s.checkCount(uint64(triangleCount), 8); err != nil {
		return nil, err
	}
	geometry.Triangles = make([]Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		// On the wire the order is vertex2, vertex1, material, vertex3.
		vertex2, err := s.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		vertex1, err := s.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		materialID, err := s.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		vertex3, err := s.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		geometry.Triangles = append(geometry.Triangles, Triangle{
			Vector:     math.Vec3{X: float32(vertex1), Y: float32(vertex2), Z: float32(vertex3)},
			MaterialID: materialID,
		})
	}

	center, err := readVec3(s)
	if err != nil {
		return nil, err
	}
	radius, err := s.ReadF32()
	if err != nil {
		return nil, err
	}
	geometry.BoundingSphere = Sphere{Center: center, Radius: radius}

	hasVertices, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	hasNormals, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	geometry.HasVertices = hasVertices != 0
	geometry.HasNormals = hasNormals != 0

	if geometry.HasVertices {
		if err := s.checkCount(uint64(vertexCount), 12); err != nil {
			return nil, err
		}
		geometry.Vertices = make([]math.Vec3, 0, vertexCount)
		for i := uint32(0); i < vertexCount; i++ {
			v, err := readVec3(s)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			geometry.Vertices = append(geometry.Vertices, v)
		}
	}

	if geometry.HasNormals {
		if err := s.checkCount(uint64(vertexCount), 12); err != nil {
			return nil, err
		}
		geometry.Normals = make([]math.Vec3, 0, vertexCount)
		for i := uint32(0); i < vertexCount; i++ {
			n, err := readVec3(s)
			if err != nil {
				return nil, fmt.Errorf("normal %d: %w", i, err)
			}
			geometry.Normals = append(geometry.Normals, n)
		}
	}

	materialList, err := readMaterialList(s)
	if err != nil {
		return nil, err
	}
	geometry.MaterialList = *materialList

	// The trailing extension wraps the bin mesh and, sometimes, a skin.
	// Its declared size re-synchronizes the cursor afterwards no matter
	// what the sub-decoders consumed.
	_, end, err := enterSection(s)
	if err != nil {
		return nil, err
	}

	binMesh, err := readBinMesh(s)
	if err != nil {
		return nil, err
	}
	geometry.BinMesh = *binMesh

	// Speculatively read one header to test for a skin section. When it
	// is something else the force-seek below repairs the position.
	next, err := readSectionHeader(s)
	if err != nil {
		return nil, err
	}
	if next.Type == SectionSkin {
		skin, err := readSkin(s, vertexCount)
		if err != nil {
			return nil, err
		}
		geometry.Skin = skin
	}

	s.SetPos(end)
	return geometry, nil
}

func readMaterialList(s *ByteStream) (*MaterialList, error) {
	if _, err := readSectionHeader(s); err != nil { // MaterialList
		return nil, err
	}
	if _, err := readSectionHeader(s); err != nil { // Struct
		return nil, err
	}

	instanceCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := s.checkCount(uint64(instanceCount), 4); err != nil {
		return nil, err
	}

	indices := make([]int32, 0, instanceCount)
	for i := uint32(0); i < instanceCount; i++ {
		index, err := s.ReadI32()
		if err != nil {
			return nil, fmt.Errorf("material index %d: %w", i, err)
		}
		indices = append(indices, index)
	}

	materials := make([]Material, 0, instanceCount)
	for i, index := range indices {
		switch {
		case index == -1:
			material, err := readMaterial(s)
			if err != nil {
				return nil, fmt.Errorf("material %d: %w", i, err)
			}
			materials = append(materials, *material)
		case index >= 0 && int(index) < len(materials):
			// Alias of an earlier material: realized as an
			// independent deep copy so the result stays a tree.
			materials = append(materials, materials[index].clone())
		default:
			return nil, fmt.Errorf("%w: entry %d references %d", ErrInvalidMaterialIndex, i, index)
		}
	}

	return &MaterialList{MaterialInstanceCount: instanceCount, Materials: materials}, nil
}

func readMaterial(s *ByteStream) (*Material, error) {
	if _, err := readSectionHeader(s); err != nil { // Material
		return nil, err
	}
	header, err := readSectionHeader(s) // Struct
	if err != nil {
		return nil, err
	}

	s.Skip(4) // flags, unused

	color, err := readColor(s)
	if err != nil {
		return nil, err
	}

	s.Skip(4) // unknown

	textured, err := s.ReadU32()
	if err != nil {
		return nil, err
	}

	material := &Material{Color: color, IsTextured: textured > 0}

	if header.Version > 0x30400 {
		material.HasSurfaceProps = true
		if material.Ambient, err = s.ReadF32(); err != nil {
			return nil, err
		}
		if material.Specular, err = s.ReadF32(); err != nil {
			return nil, err
		}
		if material.Diffuse, err = s.ReadF32(); err != nil {
			return nil, err
		}
	}

	if material.IsTextured {
		texture, err := readTexture(s)
		if err != nil {
			return nil, err
		}
		material.Texture = texture
	}

	// Trailing extension, absorbed whole.
	if err := skipSection(s); err != nil {
		return nil, err
	}

	return material, nil
}

func readTexture(s *ByteStream) (*Texture, error) {
	if _, err := readSectionHeader(s); err != nil { // Texture
		return nil, err
	}
	if _, err := readSectionHeader(s); err != nil { // Struct
		return nil, err
	}

	packed, err := s.ReadU32()
	if err != nil {
		return nil, err
	}

	nameHeader, err := readSectionHeader(s)
	if err != nil {
		return nil, err
	}
	name, err := s.ReadString(uint64(nameHeader.Size))
	if err != nil {
		return nil, err
	}

	// Mask name and extension data, reserved but not modeled.
	if err := skipSection(s); err != nil {
		return nil, err
	}
	if err := skipSection(s); err != nil {
		return nil, err
	}

	return &Texture{
		Filtering:     uint8(packed & 0xFF),
		UAddressing:   uint8((packed & 0xF00) >> 8),
		VAddressing:   uint8((packed & 0xF000) >> 12),
		UsesMipLevels: packed&(1<<16) != 0,
		Name:          name,
	}, nil
}

func readBinMesh(s *ByteStream) (*BinMesh, error) {
	if _, err := readSectionHeader(s); err != nil { // Struct
		return nil, err
	}

	s.Skip(4) // flags

	meshCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	s.Skip(4) // redundant total index count

	if err := s.checkCount(uint64(meshCount), 8); err != nil {
		return nil, err
	}

	meshes := make([]Mesh, 0, meshCount)
	for i := uint32(0); i < meshCount; i++ {
		mesh, err := readMesh(s)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		meshes = append(meshes, *mesh)
	}

	return &BinMesh{MeshCount: meshCount, Meshes: meshes}, nil
}

func readMesh(s *ByteStream) (*Mesh, error) {
	indexCount, err := s.ReadU32()
	if err != nil {
		return nil, err
	}
	materialIndex, err := s.ReadU32()
	if err != nil {
		return nil, err
	}

	if err := s.checkCount(uint64(indexCount), 4); err != nil {
		return nil, err
	}
	indices := make([]uint32, 0, indexCount)
	for i := uint32(0); i < indexCount; i++ {
		index, err := s.ReadU32()
		if err != nil {
			return nil, err
		}
		indices = append(indices, index)
	}

	return &Mesh{MaterialIndex: materialIndex, IndexCount: indexCount, Indices: indices}, nil
}

func readSkin(s *ByteStream, vertexCount uint32) (*Skin, error) {
	boneCount, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	usedBoneCount, err := s.ReadU8()
	if err != nil {
		return nil, err
	}
	maxWeights, err := s.ReadU8()
	if err != nil {
		return nil, err
	}

	s.Skip(1)                    // padding
	s.Skip(int64(usedBoneCount)) // special bone index table, not modeled

	if err := s.checkCount(uint64(vertexCount), 20); err != nil {
		return nil, err
	}

	boneIndices := make([][4]uint8, 0, vertexCount)
	for i := uint32(0); i < vertexCount; i++ {
		row, err := s.take(4)
		if err != nil {
			return nil, fmt.Errorf("bone indices %d: %w", i, err)
		}
		boneIndices = append(boneIndices, [4]uint8{row[0], row[1], row[2], row[3]})
	}

	weights := make([][4]float32, 0, vertexCount)
	for i := uint32(0); i < vertexCount; i++ {
		var row [4]float32
		for j := 0; j < 4; j++ {
			w, err := s.ReadF32()
			if err != nil {
				return nil, fmt.Errorf("vertex weights %d: %w", i, err)
			}
			row[j] = w
		}
		weights = append(weights, row)
	}

	if err := s.checkCount(uint64(boneCount), 64); err != nil {
		return nil, err
	}
	matrices := make([]math.Mat4, 0, boneCount)
	for i := uint8(0); i < boneCount; i++ {
		matrix, err := readMat4(s)
		if err != nil {
			return nil, fmt.Errorf("inverse bind matrix %d: %w", i, err)
		}
		matrices = append(matrices, matrix)
	}

	return &Skin{
		BoneCount:           boneCount,
		UsedBoneCount:       usedBoneCount,
		MaxWeightsPerVertex: maxWeights,
		VertexBoneIndices:   boneIndices,
		VertexWeights:       weights,
		InverseBoneMatrices: matrices,
	}, nil
}

func readAnimNode(s *ByteStream) (*AnimNode, error) {
	s.Skip(4) // anim version tag

	boneID, err := s.ReadI32()
	if err != nil {
		return nil, err
	}
	boneCount, err := s.ReadI32()
	if err != nil {
		return nil, err
	}

	// Only the whole-clump node (bone id 0) carries the flags and
	// keyframe-size fields.
	if boneID == 0 {
		s.Skip(8)
	}

	node := &AnimNode{BoneID: boneID, BoneCount: boneCount}
	if boneCount > 0 {
		if err := s.checkCount(uint64(boneCount), 12); err != nil {
			return nil, err
		}
		node.Bones = make([]Bone, 0, boneCount)
		for i := int32(0); i < boneCount; i++ {
			id, err := s.ReadI32()
			if err != nil {
				return nil, fmt.Errorf("bone %d: %w", i, err)
			}
			index, err := s.ReadI32()
			if err != nil {
				return nil, fmt.Errorf("bone %d: %w", i, err)
			}
			flags, err := s.ReadI32()
			if err != nil {
				return nil, fmt.Errorf("bone %d: %w", i, err)
			}
			node.Bones = append(node.Bones, Bone{BoneID: id, BoneIndex: index, Flags: flags})
		}
	}

	return node, nil
}

// TotalVertexCount returns the vertex count summed over all geometries.
func (d *DFF) TotalVertexCount() int {
	if d.GeometryList == nil {
		return 0
	}
	total := 0
	for i := range d.GeometryList.Geometries {
		total += len(d.GeometryList.Geometries[i].Vertices)
	}
	return total
}

// TotalTriangleCount returns the triangle count summed over all
// geometries.
func (d *DFF) TotalTriangleCount() int {
	if d.GeometryList == nil {
		return 0
	}
	total := 0
	for i := range d.GeometryList.Geometries {
		total += len(d.GeometryList.Geometries[i].Triangles)
	}
	return total
}

// HasSkeleton reports whether the model carries a non-empty frame
// hierarchy.
func (d *DFF) HasSkeleton() bool {
	return d.FrameList != nil && len(d.FrameList.Frames) > 0
}

// ChildFrames returns the indices of the frames parented to frame
// parentIndex.
func (f *FrameList) ChildFrames(parentIndex int32) []int {
	var children []int
	for i := range f.Frames {
		if f.Frames[i].ParentFrame == parentIndex {
			children = append(children, i)
		}
	}
	return children
}

// WorldTransform composes a frame's orientation and offset with those
// of its ancestors.
func (f *FrameList) WorldTransform(index int) (math.Mat3, math.Vec3) {
	if index < 0 || index >= len(f.Frames) {
		return math.Mat3Identity(), math.Vec3{}
	}
	frame := f.Frames[index]
	if frame.ParentFrame < 0 {
		return frame.RotationMatrix, frame.Offset
	}
	parentRot, parentOff := f.WorldTransform(int(frame.ParentFrame))
	return frame.RotationMatrix.Mul(parentRot), parentRot.MulVec(frame.Offset).Add(parentOff)
}
