// Package keys looks up provider API keys.
//
// [Source] is the only contract the rest of the library depends on.
// [EnvSource] reads <PROVIDER>_API_KEY variables, optionally after loading
// .env files; [StaticSource] serves a fixed map.
package keys
