package render

import rl "github.com/gen2brain/raylib-go/raylib"

// loadDepthShader returns the shader used for the shadow pass. Depth from the light is packed into RGB so the
// shadow map can be an ordinary color render texture.
func loadDepthShader() rl.Shader {
	return rl.LoadShaderFromMemory(depthVS, depthFS)
}

// loadLitShader returns the shader for the main pass: albedo texture times diffuse color, one directional light
// with PCF shadows, environment ambient, ACES filmic tone mapping and sRGB output.
func loadLitShader() rl.Shader {
	return rl.LoadShaderFromMemory(litVS, litFS)
}

const (
	depthVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matModel;
uniform mat4 lightVP;
void main() {
  gl_Position = lightVP * matModel * vec4(vertexPosition, 1.0);
}
`
	depthFS = `#version 330
out vec4 finalColor;
vec3 packDepth(float depth) {
  vec3 enc = fract(depth * vec3(1.0, 255.0, 65025.0));
  enc -= enc.yzz * vec3(1.0 / 255.0, 1.0 / 255.0, 0.0);
  return enc;
}
void main() {
  finalColor = vec4(packDepth(gl_FragCoord.z), 1.0);
}
`
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragTexCoord = vertexTexCoord;
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform vec3 ambient;
uniform mat4 lightVP;
uniform sampler2D shadowMap;
uniform float shadowMapSize;
uniform float shadowsOn;
uniform float receiveShadow;
uniform float normalBias;
uniform float exposure;
uniform float toneMapping;
out vec4 finalColor;

float unpackDepth(vec3 c) {
  return dot(c, vec3(1.0, 1.0 / 255.0, 1.0 / 65025.0));
}

vec3 toLinear(vec3 c) {
  return pow(c, vec3(2.2));
}

vec3 toSRGB(vec3 c) {
  vec3 lo = c * 12.92;
  vec3 hi = 1.055 * pow(c, vec3(1.0 / 2.4)) - 0.055;
  return mix(lo, hi, step(vec3(0.0031308), c));
}

// ACES filmic fit by Stephen Hill.
vec3 acesFilmic(vec3 color) {
  const mat3 inputM = mat3(0.59719, 0.07600, 0.02840, 0.35458, 0.90834, 0.13383, 0.04823, 0.01566, 0.83777);
  const mat3 outputM = mat3(1.60475, -0.10208, -0.00327, -0.53108, 1.10813, -0.07276, -0.07367, -0.00605, 1.07602);
  color *= exposure / 0.6;
  color = inputM * color;
  vec3 a = color * (color + 0.0245786) - 0.000090537;
  vec3 b = color * (0.983729 * color + 0.4329510) + 0.238081;
  color = outputM * (a / b);
  return clamp(color, 0.0, 1.0);
}

float shadowFactor(vec3 N, vec3 L) {
  if (shadowsOn < 0.5 || receiveShadow < 0.5) {
    return 1.0;
  }
  vec4 ls = lightVP * vec4(fragPosition + N * normalBias, 1.0);
  vec3 p = ls.xyz / ls.w * 0.5 + 0.5;
  if (p.x < 0.0 || p.x > 1.0 || p.y < 0.0 || p.y > 1.0 || p.z > 1.0) {
    return 1.0;
  }
  float bias = max(0.002 * (1.0 - dot(N, L)), 0.0005);
  float texel = 1.0 / shadowMapSize;
  float lit = 0.0;
  for (int x = -1; x <= 1; x++) {
    for (int y = -1; y <= 1; y++) {
      float stored = unpackDepth(texture(shadowMap, p.xy + vec2(x, y) * texel).rgb);
      lit += (p.z - bias > stored) ? 0.0 : 1.0;
    }
  }
  return lit / 9.0;
}

void main() {
  vec4 texel = texture(texture0, fragTexCoord) * colDiffuse;
  vec3 albedo = toLinear(texel.rgb);
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  if (dot(N, V) < 0.0) {
    N = -N;
  }
  float NdotL = max(dot(N, L), 0.0);
  vec3 light = toLinear(lightColor) * lightIntensity;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), 32.0) * 0.2;
  vec3 direct = (albedo * NdotL + spec * NdotL) * light * shadowFactor(N, L);
  vec3 color = toLinear(ambient) * albedo + direct;
  if (toneMapping > 0.5) {
    color = acesFilmic(color);
  } else {
    color = clamp(color * exposure, 0.0, 1.0);
  }
  finalColor = vec4(toSRGB(color), texel.a);
}
`
)
