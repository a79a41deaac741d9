// Package render draws the scene with raylib: a shadow pass from the directional light into a render texture,
// then a lit pass over every instance of the uploaded template model.
package render

import (
	"fmt"
	"image/color"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"scatter/internal/asset"
	"scatter/internal/camera"
	"scatter/internal/logger"
	"scatter/internal/scene"
)

const (
	// shadowSlot is the texture unit the shadow map is bound to; material maps use the lower units.
	shadowSlot = 10
	// Half size and near plane of the light's orthographic shadow camera.
	shadowExtent = 5
	shadowNear   = 0.5
)

// Options are the renderer settings that can change while running.
type Options struct {
	Exposure    float32
	ToneMapping bool
	Shadows     bool
	// Ambient is the environment's average color.
	Ambient color.RGBA
}

type litLocs struct {
	viewPos, lightDir, lightColor, lightIntensity, ambient int32
	lightVP, shadowMap, shadowMapSize, shadowsOn           int32
	receiveShadow, normalBias, exposure, toneMapping       int32
}

// Renderer implements frame.Renderer and session.Uploader. GPU resources are created lazily so the renderer can
// be built before the window exists.
type Renderer struct {
	opts Options
	log  *logger.Logger

	ready     bool
	lit       rl.Shader
	locs      litLocs
	depth     rl.Material
	depthLoc  int32
	shadowMap rl.RenderTexture2D
	shadowRes int

	model     rl.Model
	hasModel  bool
	meshes    []rl.Mesh
	meshMat   []int32
	materials []rl.Material
}

// New returns a renderer with the given options.
func New(opts Options, log *logger.Logger) *Renderer {
	return &Renderer{opts: opts, log: log}
}

// SetOptions replaces the options; they apply from the next frame.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

func (r *Renderer) ensure() {
	if r.ready {
		return
	}
	r.lit = loadLitShader()
	if !rl.IsShaderValid(r.lit) {
		r.log.Errorf("render: lit shader failed to compile, using the default shader")
	}
	r.locs = litLocs{
		viewPos:        rl.GetShaderLocation(r.lit, "viewPos"),
		lightDir:       rl.GetShaderLocation(r.lit, "lightDir"),
		lightColor:     rl.GetShaderLocation(r.lit, "lightColor"),
		lightIntensity: rl.GetShaderLocation(r.lit, "lightIntensity"),
		ambient:        rl.GetShaderLocation(r.lit, "ambient"),
		lightVP:        rl.GetShaderLocation(r.lit, "lightVP"),
		shadowMap:      rl.GetShaderLocation(r.lit, "shadowMap"),
		shadowMapSize:  rl.GetShaderLocation(r.lit, "shadowMapSize"),
		shadowsOn:      rl.GetShaderLocation(r.lit, "shadowsOn"),
		receiveShadow:  rl.GetShaderLocation(r.lit, "receiveShadow"),
		normalBias:     rl.GetShaderLocation(r.lit, "normalBias"),
		exposure:       rl.GetShaderLocation(r.lit, "exposure"),
		toneMapping:    rl.GetShaderLocation(r.lit, "toneMapping"),
	}
	r.depth = rl.LoadMaterialDefault()
	if s := loadDepthShader(); rl.IsShaderValid(s) {
		r.depth.Shader = s
		r.depthLoc = rl.GetShaderLocation(s, "lightVP")
	} else {
		r.log.Errorf("render: depth shader failed to compile, shadows disabled")
		r.depthLoc = -1
	}
	r.ready = true
}

// Upload loads the model's meshes and materials onto the GPU. Later uploads replace the previous model.
func (r *Renderer) Upload(m *asset.Model) error {
	r.ensure()
	model := rl.LoadModel(m.Path)
	if !rl.IsModelValid(model) || model.MeshCount == 0 {
		return fmt.Errorf("render: %s: no meshes loaded", m.Path)
	}
	if r.hasModel {
		rl.UnloadModel(r.model)
	}
	r.model, r.hasModel = model, true
	r.meshes = unsafe.Slice(model.Meshes, model.MeshCount)
	r.meshMat = unsafe.Slice(model.MeshMaterial, model.MeshCount)
	src := unsafe.Slice(model.Materials, model.MaterialCount)
	r.materials = make([]rl.Material, len(src))
	for i, mat := range src {
		if rl.IsShaderValid(r.lit) {
			mat.Shader = r.lit
		}
		r.materials[i] = mat
	}
	if int(model.MeshCount) != m.MeshCount {
		r.log.Warnf("render: %s has %d GPU meshes, expected %d", m.Path, model.MeshCount, m.MeshCount)
	}
	return nil
}

func (r *Renderer) ensureShadowMap(size int) {
	if r.shadowRes == size {
		return
	}
	if r.shadowRes != 0 {
		rl.UnloadRenderTexture(r.shadowMap)
	}
	r.shadowMap = rl.LoadRenderTexture(int32(size), int32(size))
	r.shadowRes = size
}

// Render clears to the scene background, renders the shadow map if the light casts shadows, then draws every
// top-level node with the lit shader.
func (r *Renderer) Render(scn *scene.Scene, view camera.View) {
	r.ensure()
	light := scn.Light
	shadows := r.opts.Shadows && light.CastShadow && r.depthLoc >= 0 && light.ShadowMapSize > 0
	lightVP := lightViewProjection(light)
	if shadows {
		r.ensureShadowMap(light.ShadowMapSize)
		r.shadowPass(scn, light, lightVP)
	}

	bg := scn.Background
	rl.ClearBackground(rl.NewColor(bg.R, bg.G, bg.B, 255))
	r.setLitUniforms(light, view, lightVP, shadows)
	if shadows {
		rl.ActiveTextureSlot(shadowSlot)
		rl.EnableTexture(r.shadowMap.Texture.ID)
		rl.ActiveTextureSlot(0)
	}

	rl.BeginMode3D(toCamera(view))
	rl.SetMatrixProjection(rl.MatrixPerspective(view.Fovy*rl.Deg2rad, view.Aspect, view.Near, view.Far))
	r.drawNodes(scn, func(n *scene.Node, transform rl.Matrix) {
		r.setFloat(r.locs.receiveShadow, boolFloat(n.ReceiveShadow))
		r.drawMeshes(n, transform, nil)
	})
	rl.EndMode3D()

	if shadows {
		rl.ActiveTextureSlot(shadowSlot)
		rl.DisableTexture()
		rl.ActiveTextureSlot(0)
	}
}

func (r *Renderer) shadowPass(scn *scene.Scene, light *scene.DirectionalLight, lightVP rl.Matrix) {
	rl.SetShaderValueMatrix(r.depth.Shader, r.depthLoc, lightVP)
	rl.BeginTextureMode(r.shadowMap)
	rl.ClearBackground(rl.White)
	rl.BeginMode3D(lightCamera(light))
	r.drawNodes(scn, func(n *scene.Node, transform rl.Matrix) {
		if n.CastShadow {
			r.drawMeshes(n, transform, &r.depth)
		}
	})
	rl.EndMode3D()
	rl.EndTextureMode()
}

// drawNodes walks every top-level node and calls draw with each node's world transform.
func (r *Renderer) drawNodes(scn *scene.Scene, draw func(n *scene.Node, transform rl.Matrix)) {
	if !r.hasModel {
		return
	}
	for _, top := range scn.Children() {
		r.walk(top, r.model.Transform, draw)
	}
}

func (r *Renderer) walk(n *scene.Node, parent rl.Matrix, draw func(*scene.Node, rl.Matrix)) {
	world := rl.MatrixMultiply(localMatrix(n), parent)
	if n.HasMeshes() {
		draw(n, world)
	}
	for _, c := range n.Children {
		r.walk(c, world, draw)
	}
}

// drawMeshes draws the GPU meshes the node owns with their own material, or with override when set.
func (r *Renderer) drawMeshes(n *scene.Node, transform rl.Matrix, override *rl.Material) {
	end := n.MeshEnd
	if end > len(r.meshes) {
		end = len(r.meshes)
	}
	for i := n.MeshStart; i < end; i++ {
		mat := override
		if mat == nil {
			mi := int(r.meshMat[i])
			if mi < 0 || mi >= len(r.materials) {
				continue
			}
			mat = &r.materials[mi]
		}
		rl.DrawMesh(r.meshes[i], *mat, transform)
	}
}

func (r *Renderer) setLitUniforms(light *scene.DirectionalLight, view camera.View, lightVP rl.Matrix, shadows bool) {
	if !rl.IsShaderValid(r.lit) {
		return
	}
	dir := normalize(light.Position)
	r.setVec3(r.locs.viewPos, view.Position)
	r.setVec3(r.locs.lightDir, dir)
	r.setVec3(r.locs.lightColor, colorVec(light.Color))
	r.setFloat(r.locs.lightIntensity, light.Intensity)
	r.setVec3(r.locs.ambient, colorVec(r.opts.Ambient))
	r.setFloat(r.locs.exposure, r.opts.Exposure)
	r.setFloat(r.locs.toneMapping, boolFloat(r.opts.ToneMapping))
	r.setFloat(r.locs.shadowsOn, boolFloat(shadows))
	r.setFloat(r.locs.normalBias, light.NormalBias)
	r.setFloat(r.locs.shadowMapSize, float32(max(light.ShadowMapSize, 1)))
	if r.locs.lightVP >= 0 {
		rl.SetShaderValueMatrix(r.lit, r.locs.lightVP, lightVP)
	}
	if r.locs.shadowMap >= 0 {
		rl.SetShaderValue(r.lit, r.locs.shadowMap, intUniform(shadowSlot), rl.ShaderUniformInt)
	}
}

func (r *Renderer) setFloat(loc int32, v float32) {
	if loc >= 0 {
		rl.SetShaderValue(r.lit, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

// setVec3 copies v into a local array before handing it to cgo.
func (r *Renderer) setVec3(loc int32, v [3]float32) {
	if loc >= 0 {
		val := [3]float32{v[0], v[1], v[2]}
		rl.SetShaderValueV(r.lit, loc, val[:], rl.ShaderUniformVec3, 1)
	}
}

// Unload frees every GPU resource. The renderer can be used again afterwards.
func (r *Renderer) Unload() {
	if r.hasModel {
		rl.UnloadModel(r.model)
		r.hasModel = false
		r.meshes, r.meshMat, r.materials = nil, nil, nil
	}
	if r.shadowRes != 0 {
		rl.UnloadRenderTexture(r.shadowMap)
		r.shadowRes = 0
	}
	if r.ready {
		rl.UnloadMaterial(r.depth)
		if rl.IsShaderValid(r.lit) {
			rl.UnloadShader(r.lit)
		}
		r.ready = false
	}
}

// localMatrix is scale, then rotation about Y, then translation.
func localMatrix(n *scene.Node) rl.Matrix {
	s := rl.MatrixScale(n.Scale[0], n.Scale[1], n.Scale[2])
	rot := rl.MatrixRotateY(n.RotationY)
	t := rl.MatrixTranslate(n.Position[0], n.Position[1], n.Position[2])
	return rl.MatrixMultiply(rl.MatrixMultiply(s, rot), t)
}

// lightViewProjection looks from the light position at the origin through an orthographic box.
func lightViewProjection(l *scene.DirectionalLight) rl.Matrix {
	cam := lightCamera(l)
	view := rl.MatrixLookAt(cam.Position, cam.Target, cam.Up)
	proj := rl.MatrixOrtho(-shadowExtent, shadowExtent, -shadowExtent, shadowExtent, shadowNear, l.ShadowFar)
	return rl.MatrixMultiply(view, proj)
}

func lightCamera(l *scene.DirectionalLight) rl.Camera3D {
	up := rl.NewVector3(0, 1, 0)
	p := l.Position
	if p[0] == 0 && p[2] == 0 {
		up = rl.NewVector3(0, 0, 1)
	}
	return rl.Camera3D{
		Position:   rl.NewVector3(p[0], p[1], p[2]),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         up,
		Fovy:       2 * shadowExtent,
		Projection: rl.CameraOrthographic,
	}
}

func toCamera(v camera.View) rl.Camera3D {
	return rl.Camera3D{
		Position:   rl.NewVector3(v.Position[0], v.Position[1], v.Position[2]),
		Target:     rl.NewVector3(v.Target[0], v.Target[1], v.Target[2]),
		Up:         rl.NewVector3(v.Up[0], v.Up[1], v.Up[2]),
		Fovy:       v.Fovy,
		Projection: rl.CameraPerspective,
	}
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

func colorVec(c color.RGBA) [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// intUniform passes an int through SetShaderValue, which only takes float32 slices, by keeping its bits.
func intUniform(v int32) []float32 {
	return []float32{math.Float32frombits(uint32(v))}
}
