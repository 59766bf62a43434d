package interfaces

// Checkpoint persists the highest processed post ID.
type Checkpoint interface {
	Load() (id int64, ok bool, err error)
	Save(id int64) error
}
