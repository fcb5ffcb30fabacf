package task

type PatchOption func(*Patch)

// WithTitle обрезает пробелы, но пустую строку не отбрасывает.
func WithTitle(title string) PatchOption {
	return func(p *Patch) {
		trimmed := NormalizeTitle(title)
		p.Title = &trimmed
	}
}

func WithCompleted(completed bool) PatchOption {
	return func(p *Patch) {
		p.Completed = &completed
	}
}
