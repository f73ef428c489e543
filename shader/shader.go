package shader

// Version tags the background program text. Bump it whenever a constant in
// the fragment stage changes, since the CPU evaluator in package pattern must
// be kept in lockstep.
const Version = "backdrop-2"

// Uniform and attribute names shared by the stages and the pipeline builder.
const (
	PositionAttrib    = "position"
	TimeUniform       = "u_time"
	ResolutionUniform = "u_resolution"
	MouseUniform      = "u_mouse"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
in vec2 position;
void main() {
    gl_Position = vec4(position, 0.0, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
in vec2 position;
void main() {
    gl_Position = vec4(position, 0.0, 1.0);
}
`

// ─────────────────────────────────── WebGL2 ─────────────────────────────────────

// The fragment stage is authored once. The WebGL2 header is used when the
// stage goes through the translator or straight to an ES device; desktop GL
// gets the same body under a 410 core header.
const fragmentHeaderWebGL2 = `#version 300 es
precision highp float;
`

const fragmentHeaderGL = `#version 410 core
`

const backgroundFragmentBody = `
uniform float u_time;
uniform vec2  u_resolution;
uniform vec2  u_mouse;

out vec4 fragColor;

vec3 mod289(vec3 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec2 mod289(vec2 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec3 permute(vec3 x) { return mod289(((x * 34.0) + 1.0) * x); }

// 2D simplex noise, output scaled to roughly [-1, 1].
float snoise(vec2 v) {
    const vec4 C = vec4(0.211324865405187,   // (3.0 - sqrt(3.0)) / 6.0
                        0.366025403784439,   // 0.5 * (sqrt(3.0) - 1.0)
                       -0.577350269189626,   // -1.0 + 2.0 * C.x
                        0.024390243902439);  // 1.0 / 41.0
    vec2 i  = floor(v + dot(v, C.yy));
    vec2 x0 = v - i + dot(i, C.xx);
    vec2 i1 = (x0.x > x0.y) ? vec2(1.0, 0.0) : vec2(0.0, 1.0);
    vec4 x12 = x0.xyxy + C.xxzz;
    x12.xy -= i1;
    i = mod289(i);
    vec3 p = permute(permute(i.y + vec3(0.0, i1.y, 1.0)) + i.x + vec3(0.0, i1.x, 1.0));
    vec3 m = max(0.5 - vec3(dot(x0, x0), dot(x12.xy, x12.xy), dot(x12.zw, x12.zw)), 0.0);
    m = m * m;
    m = m * m;
    vec3 x = 2.0 * fract(p * C.www) - 1.0;
    vec3 h = abs(x) - 0.5;
    vec3 ox = floor(x + 0.5);
    vec3 a0 = x - ox;
    m *= 1.79284291400159 - 0.85373472095314 * (a0 * a0 + h * h);
    vec3 g;
    g.x  = a0.x  * x0.x   + h.x  * x0.y;
    g.yz = a0.yz * x12.xz + h.yz * x12.yw;
    return 130.0 * dot(m, g);
}

void main() {
    vec2 st = gl_FragCoord.xy / u_resolution.xy;
    vec2 pos = st * 2.0 - 1.0;
    pos.x *= u_resolution.x / u_resolution.y;

    float t = u_time * 0.2;
    vec2 mouseInfluence = (u_mouse - 0.5) * 0.5;

    float noise1 = snoise(pos * 2.0 + vec2(t, t * 0.5) + mouseInfluence);
    float noise2 = snoise(pos * 3.0 - vec2(t * 0.7, t * 0.3) - mouseInfluence * 0.5);
    float noise3 = snoise(pos * 1.5 + vec2(sin(t) * 0.5, cos(t) * 0.5));

    float pattern = (noise1 + noise2 * 0.5 + noise3 * 0.3) * 0.5 + 0.5;

    vec3 navyDark = vec3(0.04, 0.06, 0.1);
    vec3 navy     = vec3(0.06, 0.08, 0.16);
    vec3 gold     = vec3(0.96, 0.77, 0.19);
    vec3 purple   = vec3(0.66, 0.33, 0.97);

    vec3 finalColor = mix(navyDark, navy, st.y);
    finalColor = mix(finalColor, gold * 0.15, pattern * 0.3);
    float purpleWeight = noise2 * 0.5 + 0.5;
    finalColor += purple * 0.08 * (purpleWeight * purpleWeight);

    float dist = length(pos);
    float radial = 1.0 - smoothstep(0.0, 1.5, dist);
    finalColor += gold * radial * 0.1;

    float vignette = smoothstep(1.0, 0.3, dist);
    finalColor *= 0.5 + 0.5 * vignette;

    fragColor = vec4(finalColor, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GenerateFragmentShader returns the background fragment stage ready to
// compile without translation.
func GenerateFragmentShader(isGLES bool) string {
	if isGLES {
		return fragmentHeaderWebGL2 + backgroundFragmentBody
	}
	return fragmentHeaderGL + backgroundFragmentBody
}

// BackgroundFragmentShader returns the WebGL2 source of the background
// fragment stage, the input of the translator.
func BackgroundFragmentShader() string {
	return fragmentHeaderWebGL2 + backgroundFragmentBody
}
