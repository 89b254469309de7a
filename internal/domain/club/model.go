package club

// Club is an athlete's home club.
type Club struct {
	ID   int64
	Name string
}
