package produce

// Config holds the switches of a Producer. It is fixed at New.
type Config struct {
	// MapSet allows drafting maps and sets.
	MapSet bool
	// Patches enables ProduceWithPatches and the onPatches callback of
	// FinishDraft.
	Patches bool
	// AutoFreeze freezes every result.
	AutoFreeze bool
	// DiscardOnReplace lets a recipe return a replacement after writing
	// to its draft. The writes are dropped with a warning instead of
	// failing with ErrInvalidProducerReturn.
	DiscardOnReplace bool
}

type Option func(*Config)

func MapSet(v bool) Option {
	return func(c *Config) { c.MapSet = v }
}
func Patches(v bool) Option {
	return func(c *Config) { c.Patches = v }
}
func AutoFreeze(v bool) Option {
	return func(c *Config) { c.AutoFreeze = v }
}
func DiscardOnReplace(v bool) Option {
	return func(c *Config) { c.DiscardOnReplace = v }
}
