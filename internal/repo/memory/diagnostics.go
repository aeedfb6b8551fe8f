package memory

type DiagnosticsRepo struct {
	store *Store
}

func NewDiagnosticsRepo(store *Store) *DiagnosticsRepo {
	return &DiagnosticsRepo{store}
}

func (r *DiagnosticsRepo) Ping() error {
	return nil
}
