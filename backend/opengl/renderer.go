// Package opengl provides an OpenGL 4.1 backend for wgui and a GLFW window
// that acts as its event source.
package opengl

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/wgui"
)

// Renderer implements wgui.Backend with one instanced draw per frame.
type Renderer struct {
	shader    uint32
	vao       uint32
	quadVBO   uint32
	instVBO   uint32
	capacity  int // instances the instance buffer holds
	images    uint32
	atlas     uint32
	imagesLoc int32
	atlasLoc  int32
	layers    int
	layerSize int
	width     int
	height    int
	clear     wgui.Vec4
	err       error
}

var _ wgui.Backend = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithClearColor sets the color the framebuffer is cleared to each frame.
func WithClearColor(c wgui.Vec4) Option {
	return func(r *Renderer) { r.clear = c }
}

// WithClearHex is WithClearColor for a "#rrggbb" style color. A malformed
// color makes NewRenderer fail with a ConfigError.
func WithClearHex(hex string) Option {
	return func(r *Renderer) {
		c, err := wgui.ParseHexColor(hex)
		if err != nil {
			r.err = &wgui.ConfigError{Field: "clear color", Reason: err.Error()}
			return
		}
		r.clear = c
	}
}

// WithTextureArray sets the layer count and square layer size of the image
// texture array. They must match the App's texture options.
func WithTextureArray(layers, size int) Option {
	return func(r *Renderer) { r.layers, r.layerSize = layers, size }
}

// Per-instance attributes: four vec4 read from each 16-float record.
const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aCorner;
layout (location = 1) in vec4 iColor;
layout (location = 2) in vec4 iPosUsageRadius;
layout (location = 3) in vec4 iSizeViewport;
layout (location = 4) in vec4 iUV;

flat out vec4 vColor;
flat out vec4 vRect;
flat out float vUsage;
flat out float vRadius;
out vec2 vPixel;
out vec2 vUV;

void main() {
    vec2 pos = iPosUsageRadius.xy;
    vec2 size = iSizeViewport.xy;
    vec2 viewport = iSizeViewport.zw;
    vec2 p = mix(pos, pos + size, aCorner);

    gl_Position = vec4(p / viewport * 2.0 - 1.0, 0.0, 1.0);
    gl_Position.y = -gl_Position.y;

    vColor = iColor;
    vRect = vec4(pos, size);
    vUsage = iPosUsageRadius.z;
    vRadius = iPosUsageRadius.w;
    vPixel = p;
    vUV = mix(iUV.xy, iUV.xy + iUV.zw, aCorner);
}
` + "\x00"

const fragmentShaderSource = `
#version 410 core
flat in vec4 vColor;
flat in vec4 vRect;
flat in float vUsage;
flat in float vRadius;
in vec2 vPixel;
in vec2 vUV;

out vec4 FragColor;

uniform sampler2DArray images;
uniform sampler2D atlas;

float roundRect(vec2 p, vec2 b, float r) {
    vec2 q = abs(p) - b + r;
    return min(max(q.x, q.y), 0.0) + length(max(q, vec2(0.0))) - r;
}

void main() {
    float alpha = vColor.a;

    if (vUsage < -1.5) {
        float d = texture(atlas, vUV).a;
        float w = mix(0.4, 0.2, clamp(vRadius, 0.0, 90.0) / 90.0);
        FragColor = vec4(vColor.rgb, alpha * smoothstep(0.6 - w, 0.6 + w, d));
        return;
    }

    if (vRadius > 0.0) {
        vec2 center = vRect.xy + vRect.zw * 0.5;
        alpha *= 1.0 - clamp(roundRect(vPixel - center, vRect.zw * 0.5, vRadius), 0.0, 1.0);
    }

    if (vUsage >= 0.0) {
        vec4 c = texture(images, vec3(vUV, floor(vUsage + 0.5)));
        FragColor = vec4(vColor.rgb * c.rgb, alpha * c.a);
        return;
    }
    FragColor = vec4(vColor.rgb, alpha);
}
` + "\x00"

// Two triangles covering the unit square.
var quadCorners = []float32{0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 1}

const instanceBytes = wgui.InstanceStride * 4

// NewRenderer creates a renderer for a width x height framebuffer. The GL
// context must be current and gl.Init must have succeeded.
func NewRenderer(width, height int, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		width:     width,
		height:    height,
		layers:    wgui.DefaultTextureLayers,
		layerSize: wgui.DefaultTextureSize,
		clear:     wgui.RGBA(0.1, 0.1, 0.1, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.layers <= 0 || r.layerSize <= 0 {
		return nil, &wgui.ConfigError{Field: "texture array", Reason: fmt.Sprintf("%d layers of %d px", r.layers, r.layerSize)}
	}

	var err error
	r.shader, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}
	r.imagesLoc = gl.GetUniformLocation(r.shader, gl.Str("images\x00"))
	r.atlasLoc = gl.GetUniformLocation(r.shader, gl.Str("atlas\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadCorners)*4, gl.Ptr(quadCorners), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &r.instVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
	r.reserve(wgui.DefaultInstanceCapacity)
	for i := uint32(0); i < 4; i++ {
		gl.VertexAttribPointerWithOffset(1+i, 4, gl.FLOAT, false, instanceBytes, uintptr(i*16))
		gl.VertexAttribDivisor(1+i, 1)
		gl.EnableVertexAttribArray(1 + i)
	}
	gl.BindVertexArray(0)

	gl.GenTextures(1, &r.images)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, r.images)
	setSampling(gl.TEXTURE_2D_ARRAY, gl.NEAREST)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.RGBA8, int32(r.layerSize), int32(r.layerSize), int32(r.layers),
		0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	// A 1x1 transparent atlas until a font is uploaded.
	gl.GenTextures(1, &r.atlas)
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)
	setSampling(gl.TEXTURE_2D, gl.LINEAR)
	empty := []byte{0, 0, 0, 0}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(empty))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		r.Delete()
		return nil, fmt.Errorf("gl error 0x%x creating renderer", code)
	}
	wgui.Logger().Debug("opengl renderer ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)), "layers", r.layers, "layer_size", r.layerSize)
	return r, nil
}

// reserve reallocates the bound instance buffer for n instances.
func (r *Renderer) reserve(n int) {
	gl.BufferData(gl.ARRAY_BUFFER, n*instanceBytes, nil, gl.DYNAMIC_DRAW)
	r.capacity = n
}

func setSampling(target uint32, filter int32) {
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// Resize updates the viewport size.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// UploadTexture replaces one layer of the image texture array. img must be
// exactly the layer size.
func (r *Renderer) UploadTexture(layer int, img *image.RGBA) error {
	if layer < 0 || layer >= r.layers {
		return fmt.Errorf("texture layer %d out of range [0,%d)", layer, r.layers)
	}
	b := img.Bounds()
	if b.Dx() != r.layerSize || b.Dy() != r.layerSize {
		return fmt.Errorf("texture layer %d: image is %dx%d, want %dx%d", layer, b.Dx(), b.Dy(), r.layerSize, r.layerSize)
	}
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, r.images)
	gl.TexSubImage3D(gl.TEXTURE_2D_ARRAY, 0, 0, 0, int32(layer), int32(b.Dx()), int32(b.Dy()), 1,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(tightPixels(img)))
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	return glError("upload texture")
}

// UploadFontAtlas replaces the glyph atlas texture.
func (r *Renderer) UploadFontAtlas(img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("nil font atlas")
	}
	b := img.Bounds()
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(tightPixels(img)))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return glError("upload font atlas")
}

// tightPixels returns the pixels of img without row padding.
func tightPixels(img *image.RGBA) []uint8 {
	b := img.Bounds()
	row := b.Dx() * 4
	if img.Stride == row && len(img.Pix) == row*b.Dy() {
		return img.Pix
	}
	out := make([]uint8, 0, row*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+row]...)
	}
	return out
}

// Draw clears the framebuffer and draws the first count instances.
func (r *Renderer) Draw(instances []float32, count int) error {
	if count*wgui.InstanceStride > len(instances) {
		return fmt.Errorf("%d instances exceed buffer of %d floats", count, len(instances))
	}

	// Save GL state
	var lastProgram, lastVAO, lastArrayBuffer, lastTexture int32
	var lastBlendSrc, lastBlendDst int32
	var lastViewport [4]int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &lastProgram)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &lastVAO)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &lastArrayBuffer)
	gl.GetIntegerv(gl.ACTIVE_TEXTURE, &lastTexture)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &lastBlendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &lastBlendDst)
	gl.GetIntegerv(gl.VIEWPORT, &lastViewport[0])
	blendEnabled := gl.IsEnabled(gl.BLEND)
	depthEnabled := gl.IsEnabled(gl.DEPTH_TEST)
	cullEnabled := gl.IsEnabled(gl.CULL_FACE)
	scissorEnabled := gl.IsEnabled(gl.SCISSOR_TEST)

	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(r.clear.X, r.clear.Y, r.clear.Z, r.clear.W)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if count > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.Disable(gl.CULL_FACE)
		gl.Disable(gl.DEPTH_TEST)
		gl.Disable(gl.SCISSOR_TEST)

		gl.UseProgram(r.shader)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, r.images)
		gl.Uniform1i(r.imagesLoc, 0)
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, r.atlas)
		gl.Uniform1i(r.atlasLoc, 1)

		gl.BindVertexArray(r.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
		if n := len(instances) / wgui.InstanceStride; n > r.capacity {
			r.reserve(n)
			wgui.Logger().Debug("instance buffer reallocated", "capacity", n)
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*instanceBytes, unsafe.Pointer(&instances[0]))
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(len(quadCorners)/2), int32(count))
	}

	// Restore GL state
	gl.UseProgram(uint32(lastProgram))
	gl.BindVertexArray(uint32(lastVAO))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(lastArrayBuffer))
	gl.ActiveTexture(uint32(lastTexture))
	gl.BlendFunc(uint32(lastBlendSrc), uint32(lastBlendDst))
	gl.Viewport(lastViewport[0], lastViewport[1], lastViewport[2], lastViewport[3])
	setEnabled(gl.BLEND, blendEnabled)
	setEnabled(gl.DEPTH_TEST, depthEnabled)
	setEnabled(gl.CULL_FACE, cullEnabled)
	setEnabled(gl.SCISSOR_TEST, scissorEnabled)

	return glError("draw")
}

func setEnabled(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

// ReadPixels reads the framebuffer back into an image, top row first.
func (r *Renderer) ReadPixels() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	row := r.width * 4
	tmp := make([]uint8, row)
	for y := 0; y < r.height/2; y++ {
		top := img.Pix[y*row : (y+1)*row]
		bottom := img.Pix[(r.height-1-y)*row : (r.height-y)*row]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
	return img
}

// Delete releases OpenGL resources.
func (r *Renderer) Delete() {
	if r.atlas != 0 {
		gl.DeleteTextures(1, &r.atlas)
	}
	if r.images != 0 {
		gl.DeleteTextures(1, &r.images)
	}
	if r.instVBO != 0 {
		gl.DeleteBuffers(1, &r.instVBO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.shader != 0 {
		gl.DeleteProgram(r.shader)
	}
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", string(log))
	}
	return shader, nil
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}
	return program, nil
}
