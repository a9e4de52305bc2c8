package utils

// Ptr returns a pointer to a copy of v. Optional wire fields such as
// temperature, top_p or a diffusion seed are pointers so that zero values
// can still be sent.
func Ptr[T any](v T) *T {
	return &v
}
