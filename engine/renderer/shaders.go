package renderer

// frameUniformSize is the byte size of the per-frame uniform block: view-projection matrix,
// light direction, ambient radiance, directional radiance.
const frameUniformSize = 64 + 16*3

// objectUniformSize is the byte size of one draw's uniform block: model matrix, colour and
// flags. Draw slots are spaced by objectUniformStride to satisfy dynamic offset alignment.
const (
	objectUniformSize   = 64 + 16*2
	objectUniformStride = 256
)

const meshShaderSource = `
struct Frame {
	view_proj: mat4x4<f32>,
	light_dir: vec4<f32>,
	ambient: vec4<f32>,
	directional: vec4<f32>,
};

struct Object {
	model: mat4x4<f32>,
	color: vec4<f32>,
	flags: vec4<f32>,
};

@group(0) @binding(0) var<uniform> frame: Frame;
@group(1) @binding(0) var<uniform> object: Object;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) normal: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) normal: vec3<f32>) -> VertexOut {
	var out: VertexOut;
	out.position = frame.view_proj * object.model * vec4<f32>(position, 1.0);
	out.normal = (object.model * vec4<f32>(normal, 0.0)).xyz;
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	if (object.flags.x < 0.5) {
		return object.color;
	}
	let n = normalize(in.normal);
	let diffuse = max(dot(n, -frame.light_dir.xyz), 0.0);
	let light = frame.ambient.rgb + frame.directional.rgb * diffuse;
	return vec4<f32>(object.color.rgb * light, object.color.a);
}
`

const lineShaderSource = `
struct Frame {
	view_proj: mat4x4<f32>,
	light_dir: vec4<f32>,
	ambient: vec4<f32>,
	directional: vec4<f32>,
};

@group(0) @binding(0) var<uniform> frame: Frame;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) color: vec4<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) color: vec4<f32>) -> VertexOut {
	var out: VertexOut;
	out.position = frame.view_proj * vec4<f32>(position, 1.0);
	out.color = color;
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	return in.color;
}
`
