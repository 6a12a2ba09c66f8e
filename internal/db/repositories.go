package db

// Repositories provides access to all database repositories
type Repositories struct {
	Streams *StreamRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Streams: NewStreamRepository(db),
	}
}
