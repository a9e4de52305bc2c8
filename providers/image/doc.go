// Package image defines the contract every image-generation backend
// implements, plus the request, settings and response types shared by all
// of them.
//
// Two strategies implement [Provider]: providers/image/openai issues one
// synchronous request per call, providers/image/diffusion starts a job and
// polls it, reporting step progress through [GenerateParams.OnProgress].
// Whatever the backend returns (inline base64 or a hosted URL), every
// [GeneratedImage] carries the raw bytes in Data; URL and B64JSON are kept
// as provenance only.
package image
