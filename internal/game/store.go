package game

// ProgressStore owns the best score across runs. It only ever grows through
// UpdateBest; nothing resets it implicitly.
type ProgressStore interface {
	BestScore() int
	// UpdateBest stores score if it beats the current best and reports whether it did.
	UpdateBest(score int) (bool, error)
}

// RunRecorder is implemented by stores that keep a history of finished runs.
type RunRecorder interface {
	RecordRun(run RunRecord) error
}

// RunRecord describes one finished run.
type RunRecord struct {
	Shape    string
	Score    int
	Distance float64
	Cause    string
	Seed     int64
	Ticks    int
}

// MemoryStore is a process-lifetime ProgressStore.
type MemoryStore struct {
	best int
	runs []RunRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// BestScore returns the best score seen so far.
func (m *MemoryStore) BestScore() int {
	return m.best
}

// UpdateBest replaces the best score when score is greater.
func (m *MemoryStore) UpdateBest(score int) (bool, error) {
	if score <= m.best {
		return false, nil
	}
	m.best = score
	return true, nil
}

// RecordRun appends run to the history.
func (m *MemoryStore) RecordRun(run RunRecord) error {
	m.runs = append(m.runs, run)
	return nil
}

// Runs returns the recorded runs, oldest first.
func (m *MemoryStore) Runs() []RunRecord {
	return append([]RunRecord(nil), m.runs...)
}
