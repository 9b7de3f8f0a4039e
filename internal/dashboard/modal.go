package dashboard

// ModalState tracks the detail and note modals. Each is either closed or open on one organization.
type ModalState struct {
	detailID   int
	detailOpen bool
	noteID     int
	noteOpen   bool
}

// OpenDetail opens the detail modal, replacing any organization already shown
func (m *ModalState) OpenDetail(id int) {
	m.detailID, m.detailOpen = id, true
}

// OpenNote opens the note modal, replacing any organization already shown
func (m *ModalState) OpenNote(id int) {
	m.noteID, m.noteOpen = id, true
}

// CloseDetail closes the detail modal
func (m *ModalState) CloseDetail() { m.detailID, m.detailOpen = 0, false }

// CloseNote closes the note modal
func (m *ModalState) CloseNote() { m.noteID, m.noteOpen = 0, false }

// CloseAll closes both modals
func (m *ModalState) CloseAll() {
	m.CloseDetail()
	m.CloseNote()
}

// Detail returns the organization shown in the detail modal
func (m ModalState) Detail() (int, bool) { return m.detailID, m.detailOpen }

// Note returns the organization shown in the note modal
func (m ModalState) Note() (int, bool) { return m.noteID, m.noteOpen }
