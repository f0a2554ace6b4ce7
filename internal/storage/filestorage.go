package storage

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/memora-care/memora/internal/repository"
	"github.com/memora-care/memora/internal/transfer"
)

// FileStorage keeps every record in memory and, when filePath is set,
// rewrites the JSON file after each committed write. One mutex serializes
// all access, so compare-and-set operations are trivially atomic.
type FileStorage struct {
	filePath string
	mu       sync.Mutex
	data     *StorageData
	nextHist int64
}

type StorageData struct {
	Caregivers      []repository.Caregiver      `json:"caregivers"`
	Patients        []repository.Patient        `json:"patients"`
	Memories        []repository.Memory         `json:"memories"`
	MemoryPhotos    []repository.MemoryPhoto    `json:"memoryPhotos"`
	FamilyMembers   []repository.FamilyMember   `json:"familyMembers"`
	Sessions        []repository.TherapySession `json:"sessions"`
	SessionMemories []repository.SessionMemory  `json:"sessionMemories"`
	Transfers       []repository.Transfer       `json:"transfers"`
	History         []repository.HistoryEntry   `json:"history"`
}

func (d *StorageData) clone() *StorageData {
	return &StorageData{
		Caregivers:      append([]repository.Caregiver(nil), d.Caregivers...),
		Patients:        append([]repository.Patient(nil), d.Patients...),
		Memories:        append([]repository.Memory(nil), d.Memories...),
		MemoryPhotos:    append([]repository.MemoryPhoto(nil), d.MemoryPhotos...),
		FamilyMembers:   append([]repository.FamilyMember(nil), d.FamilyMembers...),
		Sessions:        append([]repository.TherapySession(nil), d.Sessions...),
		SessionMemories: append([]repository.SessionMemory(nil), d.SessionMemories...),
		Transfers:       append([]repository.Transfer(nil), d.Transfers...),
		History:         append([]repository.HistoryEntry(nil), d.History...),
	}
}

// NewMemoryStorage returns a store that is never written to disk.
func NewMemoryStorage() *FileStorage {
	return &FileStorage{data: &StorageData{}}
}

func NewFileStorage(filePath string) (*FileStorage, error) {
	fs := &FileStorage{
		filePath: filePath,
		data:     &StorageData{},
	}
	return fs, fs.load()
}

func (fs *FileStorage) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(fs.data); err != nil {
		return err
	}
	for _, h := range fs.data.History {
		if h.ID > fs.nextHist {
			fs.nextHist = h.ID
		}
	}
	return nil
}

// saveLocked must be called with mu held.
func (fs *FileStorage) saveLocked() error {
	if fs.filePath == "" {
		return nil
	}

	file, err := os.Create(fs.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(fs.data)
}

type txKey struct{}

func (fs *FileStorage) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*FileStorage)
	return owner == fs
}

// WithTx holds the store lock for the whole callback and restores the
// previous state if the callback fails.
func (fs *FileStorage) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if fs.inTx(ctx) {
		return fn(ctx)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	snapshot := fs.data.clone()
	histSnapshot := fs.nextHist
	if err := fn(context.WithValue(ctx, txKey{}, fs)); err != nil {
		fs.data = snapshot
		fs.nextHist = histSnapshot
		return err
	}
	if err := fs.saveLocked(); err != nil {
		fs.data = snapshot
		fs.nextHist = histSnapshot
		return err
	}
	return nil
}

// read runs fn under the lock unless ctx already holds it.
func (fs *FileStorage) read(ctx context.Context, fn func(d *StorageData) error) error {
	if fs.inTx(ctx) {
		return fn(fs.data)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fn(fs.data)
}

// write is read plus persistence when not inside WithTx.
func (fs *FileStorage) write(ctx context.Context, fn func(d *StorageData) error) error {
	if fs.inTx(ctx) {
		return fn(fs.data)
	}
	return fs.WithTx(ctx, func(txCtx context.Context) error {
		return fn(fs.data)
	})
}

// Deps exposes the store as the coordinator's collaborators.
func (fs *FileStorage) Deps() transfer.Deps {
	return transfer.Deps{
		Tx:         fs,
		Transfers:  &TransferStore{fs: fs},
		Patients:   &PatientStore{fs: fs},
		Caregivers: &CaregiverStore{fs: fs},
		History:    &HistoryStore{fs: fs},
		Briefings:  &BriefingStore{fs: fs},
	}
}

func (fs *FileStorage) AddCaregiver(ctx context.Context, c repository.Caregiver) error {
	return fs.write(ctx, func(d *StorageData) error {
		for _, existing := range d.Caregivers {
			if existing.ID == c.ID || transfer.NormalizeEmail(existing.Email) == transfer.NormalizeEmail(c.Email) {
				return repository.ErrDuplicate
			}
		}
		d.Caregivers = append(d.Caregivers, c)
		return nil
	})
}

func (fs *FileStorage) AddPatient(ctx context.Context, p repository.Patient) error {
	return fs.write(ctx, func(d *StorageData) error {
		for _, existing := range d.Patients {
			if existing.ID == p.ID {
				return repository.ErrDuplicate
			}
		}
		d.Patients = append(d.Patients, p)
		return nil
	})
}

// DeletePatient removes a patient and its care records. Transfers are kept.
func (fs *FileStorage) DeletePatient(ctx context.Context, patientID string) error {
	return fs.write(ctx, func(d *StorageData) error {
		idx := -1
		for i, p := range d.Patients {
			if p.ID == patientID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return repository.ErrObjectNotFound
		}
		d.Patients = append(d.Patients[:idx], d.Patients[idx+1:]...)

		memoryIDs := map[string]bool{}
		d.Memories = filter(d.Memories, func(m repository.Memory) bool {
			if m.PatientID == patientID {
				memoryIDs[m.ID] = true
				return false
			}
			return true
		})
		d.MemoryPhotos = filter(d.MemoryPhotos, func(p repository.MemoryPhoto) bool { return !memoryIDs[p.MemoryID] })
		d.FamilyMembers = filter(d.FamilyMembers, func(f repository.FamilyMember) bool { return f.PatientID != patientID })

		sessionIDs := map[string]bool{}
		d.Sessions = filter(d.Sessions, func(s repository.TherapySession) bool {
			if s.PatientID == patientID {
				sessionIDs[s.ID] = true
				return false
			}
			return true
		})
		d.SessionMemories = filter(d.SessionMemories, func(sm repository.SessionMemory) bool { return !sessionIDs[sm.SessionID] })
		return nil
	})
}

func (fs *FileStorage) AddMemory(ctx context.Context, m repository.Memory, photos ...repository.MemoryPhoto) error {
	return fs.write(ctx, func(d *StorageData) error {
		d.Memories = append(d.Memories, m)
		for _, p := range photos {
			p.MemoryID = m.ID
			d.MemoryPhotos = append(d.MemoryPhotos, p)
		}
		return nil
	})
}

func (fs *FileStorage) AddFamilyMember(ctx context.Context, f repository.FamilyMember) error {
	return fs.write(ctx, func(d *StorageData) error {
		d.FamilyMembers = append(d.FamilyMembers, f)
		return nil
	})
}

func (fs *FileStorage) AddSession(ctx context.Context, s repository.TherapySession, reviewed ...repository.SessionMemory) error {
	return fs.write(ctx, func(d *StorageData) error {
		d.Sessions = append(d.Sessions, s)
		for _, sm := range reviewed {
			sm.SessionID = s.ID
			d.SessionMemories = append(d.SessionMemories, sm)
		}
		return nil
	})
}

// HistoryOf returns the recorded state changes of a transfer, oldest first.
func (fs *FileStorage) HistoryOf(ctx context.Context, transferID string) ([]repository.HistoryEntry, error) {
	var out []repository.HistoryEntry
	err := fs.read(ctx, func(d *StorageData) error {
		for _, h := range d.History {
			if h.TransferID == transferID {
				out = append(out, h)
			}
		}
		return nil
	})
	return out, err
}

type TransferStore struct {
	fs *FileStorage
}

func (s *TransferStore) Create(ctx context.Context, t transfer.Transfer) error {
	return s.fs.write(ctx, func(d *StorageData) error {
		for _, existing := range d.Transfers {
			if existing.ID == t.ID {
				return repository.ErrDuplicate
			}
			if existing.PatientID == t.PatientID && existing.Status == string(transfer.StatusPending) {
				return repository.ErrDuplicate
			}
		}
		d.Transfers = append(d.Transfers, transfer.ToRecord(t))
		return nil
	})
}

func (s *TransferStore) GetByID(ctx context.Context, id string) (transfer.Transfer, error) {
	var out transfer.Transfer
	err := s.fs.read(ctx, func(d *StorageData) error {
		for _, t := range d.Transfers {
			if t.ID == id {
				out = transfer.FromRecord(t)
				return nil
			}
		}
		return repository.ErrObjectNotFound
	})
	return out, err
}

func (s *TransferStore) HasPending(ctx context.Context, patientID string) (bool, error) {
	var found bool
	err := s.fs.read(ctx, func(d *StorageData) error {
		for _, t := range d.Transfers {
			if t.PatientID == patientID && t.Status == string(transfer.StatusPending) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (s *TransferStore) CompareAndSetStatus(ctx context.Context, id string, from, to transfer.Status, respondedAt *time.Time) (bool, error) {
	var swapped bool
	err := s.fs.write(ctx, func(d *StorageData) error {
		for i := range d.Transfers {
			if d.Transfers[i].ID != id {
				continue
			}
			if d.Transfers[i].Status != string(from) {
				return nil
			}
			d.Transfers[i].Status = string(to)
			if respondedAt != nil {
				at := *respondedAt
				d.Transfers[i].RespondedAt = &at
			}
			swapped = true
			return nil
		}
		return nil
	})
	return swapped, err
}

func (s *TransferStore) ExpireStale(ctx context.Context, fromCaregiverID string, now time.Time) ([]transfer.Transfer, error) {
	var expired []transfer.Transfer
	err := s.fs.write(ctx, func(d *StorageData) error {
		for i := range d.Transfers {
			t := &d.Transfers[i]
			if t.FromCaregiverID == fromCaregiverID && t.Status == string(transfer.StatusPending) && t.ExpiresAt.Before(now) {
				t.Status = string(transfer.StatusExpired)
				expired = append(expired, transfer.FromRecord(*t))
			}
		}
		return nil
	})
	return expired, err
}

func (s *TransferStore) ListIncoming(ctx context.Context, caregiverID string) ([]transfer.Transfer, error) {
	return s.list(ctx, func(t repository.Transfer) bool { return t.ToCaregiverID == caregiverID })
}

func (s *TransferStore) ListOutgoing(ctx context.Context, caregiverID string) ([]transfer.Transfer, error) {
	return s.list(ctx, func(t repository.Transfer) bool { return t.FromCaregiverID == caregiverID })
}

func (s *TransferStore) list(ctx context.Context, match func(repository.Transfer) bool) ([]transfer.Transfer, error) {
	var out []transfer.Transfer
	err := s.fs.read(ctx, func(d *StorageData) error {
		for _, t := range d.Transfers {
			if match(t) {
				out = append(out, transfer.FromRecord(t))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

type PatientStore struct {
	fs *FileStorage
}

func (s *PatientStore) GetByID(ctx context.Context, patientID string) (transfer.Patient, error) {
	p, err := s.fs.patient(ctx, patientID)
	if err != nil {
		return transfer.Patient{}, err
	}
	return transfer.PatientFromRecord(p), nil
}

func (s *PatientStore) GetOwned(ctx context.Context, patientID, caregiverID string) (transfer.Patient, error) {
	p, err := s.fs.patient(ctx, patientID)
	if err != nil {
		return transfer.Patient{}, err
	}
	if p.CaregiverID != caregiverID {
		return transfer.Patient{}, repository.ErrObjectNotFound
	}
	return transfer.PatientFromRecord(p), nil
}

func (s *PatientStore) Reassign(ctx context.Context, patientID, fromCaregiverID, toCaregiverID string, at time.Time) (bool, error) {
	var moved bool
	err := s.fs.write(ctx, func(d *StorageData) error {
		for i := range d.Patients {
			p := &d.Patients[i]
			if p.ID == patientID && p.CaregiverID == fromCaregiverID {
				p.CaregiverID = toCaregiverID
				p.UpdatedAt = at
				moved = true
				return nil
			}
		}
		return nil
	})
	return moved, err
}

func (fs *FileStorage) patient(ctx context.Context, patientID string) (repository.Patient, error) {
	var out repository.Patient
	err := fs.read(ctx, func(d *StorageData) error {
		for _, p := range d.Patients {
			if p.ID == patientID {
				out = p
				return nil
			}
		}
		return repository.ErrObjectNotFound
	})
	return out, err
}

type CaregiverStore struct {
	fs *FileStorage
}

func (s *CaregiverStore) GetByID(ctx context.Context, id string) (transfer.Caregiver, error) {
	return s.find(ctx, func(c repository.Caregiver) bool { return c.ID == id })
}

func (s *CaregiverStore) GetByEmail(ctx context.Context, email string) (transfer.Caregiver, error) {
	email = transfer.NormalizeEmail(email)
	return s.find(ctx, func(c repository.Caregiver) bool { return transfer.NormalizeEmail(c.Email) == email })
}

func (s *CaregiverStore) find(ctx context.Context, match func(repository.Caregiver) bool) (transfer.Caregiver, error) {
	var out transfer.Caregiver
	err := s.fs.read(ctx, func(d *StorageData) error {
		for _, c := range d.Caregivers {
			if match(c) {
				out = transfer.CaregiverFromRecord(c)
				return nil
			}
		}
		return repository.ErrObjectNotFound
	})
	return out, err
}

type HistoryStore struct {
	fs *FileStorage
}

func (s *HistoryStore) Record(ctx context.Context, e transfer.Event) error {
	return s.fs.write(ctx, func(d *StorageData) error {
		s.fs.nextHist++
		entry := repository.HistoryEntry{
			ID:         s.fs.nextHist,
			TransferID: e.TransferID,
			Status:     string(e.Status),
			ChangedAt:  e.OccurredAt,
		}
		if e.ActorID != "" {
			actor := e.ActorID
			entry.ActorID = &actor
		}
		d.History = append(d.History, entry)
		return nil
	})
}

type BriefingStore struct {
	fs *FileStorage
}

func (s *BriefingStore) LoadBriefing(ctx context.Context, patientID string) (transfer.BriefingData, error) {
	var out transfer.BriefingData
	err := s.fs.read(ctx, func(d *StorageData) error {
		found := false
		for _, p := range d.Patients {
			if p.ID == patientID {
				out.Patient = p
				found = true
				break
			}
		}
		if !found {
			return repository.ErrObjectNotFound
		}

		memoryIDs := map[string]bool{}
		for _, m := range d.Memories {
			if m.PatientID == patientID {
				out.Memories = append(out.Memories, m)
				memoryIDs[m.ID] = true
			}
		}
		for _, p := range d.MemoryPhotos {
			if memoryIDs[p.MemoryID] {
				out.Photos = append(out.Photos, p)
			}
		}
		for _, f := range d.FamilyMembers {
			if f.PatientID == patientID {
				out.FamilyMembers = append(out.FamilyMembers, f)
			}
		}
		sessionIDs := map[string]bool{}
		for _, sess := range d.Sessions {
			if sess.PatientID == patientID {
				out.Sessions = append(out.Sessions, sess)
				sessionIDs[sess.ID] = true
			}
		}
		for _, sm := range d.SessionMemories {
			if sessionIDs[sm.SessionID] {
				out.SessionMemories = append(out.SessionMemories, sm)
			}
		}
		return nil
	})
	return out, err
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
