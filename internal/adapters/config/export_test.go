package config

// WithLookup replaces the environment lookup used for ${NAME} expansion.
func (l *Loader) WithLookup(lookup func(string) (string, bool)) *Loader {
	l.lookup = lookup
	return l
}
