package shader

import "github.com/richinsley/gobloom/graphics"

// Uniform names shared between the shader sources and the passes binding them.
const (
	UniformBlurTexture   = "blur_tex"
	UniformRadius        = "radius"
	UniformMainTexture   = "main_tex"
	UniformBrightTexture = "bright_tex"
	UniformTransform     = "transform"
)

// ─────────────────────────── Post-process (WebGL2) ────────────────────────────
//
// Post-process stages are written once as WebGL2 GLSL and translated to the
// dialect of the device, so they must not use any desktop only features.

// fullScreenVertexSource covers the unit square with two triangles generated
// from gl_VertexID, no vertex buffer is bound.
const fullScreenVertexSource = `#version 300 es
precision highp float;

out vec2 v_pos;

const vec2 POS[6] = vec2[6](
  vec2(0.0, 1.0),
  vec2(0.0, 0.0),
  vec2(1.0, 1.0),
  vec2(0.0, 0.0),
  vec2(1.0, 1.0),
  vec2(1.0, 0.0)
);

void main() {
  vec2 pos = POS[gl_VertexID];
  gl_Position = vec4((pos * 2.0) - vec2(1.0), 0.0, 1.0);
  v_pos = pos;
}
`

// blurFragmentSource is a 3x3 tent filter. A radius of 1.0 spaces the taps
// four texels of the sampled texture apart.
const blurFragmentSource = `#version 300 es
precision highp float;

uniform sampler2D blur_tex;
uniform float radius;

in vec2 v_pos;
out vec4 frag_color;

void main() {
  vec2 spacing = 4.0 * radius / vec2(textureSize(blur_tex, 0));

  vec3 sum = vec3(0.0);
  for (int y = -1; y <= 1; y++) {
    for (int x = -1; x <= 1; x++) {
      float weight = float((2 - abs(x)) * (2 - abs(y)));
      sum += weight * texture(blur_tex, v_pos + vec2(float(x), float(y)) * spacing).rgb;
    }
  }

  frag_color = vec4(sum / 16.0, 1.0);
}
`

// compositeFragmentSource adds the blurred bright texture onto the main
// texture, then tone maps and gamma corrects the HDR sum.
const compositeFragmentSource = `#version 300 es
precision highp float;

uniform sampler2D main_tex;
uniform sampler2D bright_tex;

in vec2 v_pos;
out vec4 frag_color;

void main() {
  vec3 hdr = texture(main_tex, v_pos).rgb + texture(bright_tex, v_pos).rgb;
  vec3 mapped = hdr / (hdr + vec3(1.0));
  frag_color = vec4(pow(mapped, vec3(1.0 / 2.2)), 1.0);
}
`

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const geometryVertexSourceGL = `#version 410 core
layout (location = 0) in vec3 pos;
layout (location = 1) in vec4 color;

uniform mat4 transform;

out vec4 v_color;

void main() {
    gl_Position = transform * vec4(pos, 1.0);
    v_color = color;
}
`

const geometryFragmentSourceGL = `#version 410 core
in vec4 v_color;

layout (location = 0) out vec4 main_color;
layout (location = 1) out vec4 bright_color;

void main() {
    float luma = dot(v_color.rgb, vec3(0.2126, 0.7152, 0.0722));
    main_color = v_color;
    bright_color = vec4(v_color.rgb * smoothstep(0.8, 1.1, luma), 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const geometryVertexSourceGLES = `#version 300 es
layout (location = 0) in vec3 pos;
layout (location = 1) in vec4 color;

uniform mat4 transform;

out vec4 v_color;

void main() {
    gl_Position = transform * vec4(pos, 1.0);
    v_color = color;
}
`

const geometryFragmentSourceGLES = `#version 300 es
precision highp float;

in vec4 v_color;

layout (location = 0) out vec4 main_color;
layout (location = 1) out vec4 bright_color;

void main() {
    float luma = dot(v_color.rgb, vec3(0.2126, 0.7152, 0.0722));
    main_color = v_color;
    bright_color = vec4(v_color.rgb * smoothstep(0.8, 1.1, luma), 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func Blur() graphics.ProgramSource {
	return graphics.ProgramSource{
		Label:     "Blur",
		Vertex:    fullScreenVertexSource,
		Fragment:  blurFragmentSource,
		Translate: true,
	}
}

func Composite() graphics.ProgramSource {
	return graphics.ProgramSource{
		Label:     "Composite",
		Vertex:    fullScreenVertexSource,
		Fragment:  compositeFragmentSource,
		Translate: true,
	}
}

func Geometry(dialect graphics.Dialect) graphics.ProgramSource {
	if dialect == graphics.DialectESSL300 {
		return graphics.ProgramSource{
			Label:    "Geometry",
			Vertex:   geometryVertexSourceGLES,
			Fragment: geometryFragmentSourceGLES,
		}
	}

	return graphics.ProgramSource{
		Label:    "Geometry",
		Vertex:   geometryVertexSourceGL,
		Fragment: geometryFragmentSourceGL,
	}
}
