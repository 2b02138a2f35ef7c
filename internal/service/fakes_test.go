package service

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

// studentRepoMock keeps students in memory and enforces the same
// uniqueness and version rules as the Mongo repository.
type studentRepoMock struct {
	mu        sync.Mutex
	students  map[primitive.ObjectID]*models.Student
	takenIDs  map[string]bool
	updates   int
	updateErr error
}

func newStudentRepoMock() *studentRepoMock {
	return &studentRepoMock{students: map[primitive.ObjectID]*models.Student{}, takenIDs: map[string]bool{}}
}

func (m *studentRepoMock) put(s *models.Student) *models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.Version == 0 {
		s.Version = 1
	}
	s.Email = normalizeEmail(s.Email)
	clone := *s
	m.students[s.ID] = &clone
	return s
}

func (m *studentRepoMock) get(id primitive.ObjectID) *models.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.students[id]
}

func (m *studentRepoMock) Create(_ context.Context, s *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.students {
		if existing.Email == normalizeEmail(s.Email) {
			return appErrors.Clone(appErrors.ErrDuplicate, "Student with this email already exists")
		}
	}
	s.ID = primitive.NewObjectID()
	s.Version = 1
	clone := *s
	m.students[s.ID] = &clone
	return nil
}

func (m *studentRepoMock) FindByID(_ context.Context, id primitive.ObjectID) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *s
	return &clone, nil
}

func (m *studentRepoMock) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Email == normalizeEmail(email) {
			clone := *s
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *studentRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *studentRepoMock) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, s := range m.students {
		if filter.Status != "" && s.AdmissionStatus != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	total := int64(len(out))
	page := filter.PageRequest.Normalize()
	start := int(page.Skip())
	if start > len(out) {
		start = len(out)
	}
	end := start + page.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *studentRepoMock) Update(_ context.Context, s *models.Student, arm ...models.EmailKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	current, ok := m.students[s.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if current.Version != s.Version {
		return appErrors.ErrStaleWrite
	}
	if s.StudentID != "" && s.StudentID != current.StudentID && m.takenIDs[s.StudentID] {
		return appErrors.Clone(appErrors.ErrDuplicate, "student identifier already in use")
	}
	s.Version++
	if s.StudentID != "" {
		m.takenIDs[s.StudentID] = true
	}
	clone := *s
	if !slices.Contains(arm, models.EmailKindCredentials) {
		clone.PasswordHash = current.PasswordHash
		clone.CredentialEmail = current.CredentialEmail
	}
	if !slices.Contains(arm, models.EmailKindAllocation) && clone.Hostel.Allocation != nil {
		alloc := *clone.Hostel.Allocation
		alloc.Email = nil
		if current.Hostel.Allocation != nil {
			alloc.Email = current.Hostel.Allocation.Email
		}
		clone.Hostel.Allocation = &alloc
	}
	m.students[s.ID] = &clone
	m.updates++
	return nil
}

func (m *studentRepoMock) delivery(kind models.EmailKind, id primitive.ObjectID) (*models.EmailDelivery, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	var d *models.EmailDelivery
	if kind == models.EmailKindAllocation {
		if s.Hostel.Allocation == nil {
			s.Hostel.Allocation = &models.HostelAllocation{}
		}
		alloc := *s.Hostel.Allocation
		if alloc.Email == nil {
			alloc.Email = &models.EmailDelivery{}
		} else {
			email := *alloc.Email
			alloc.Email = &email
		}
		s.Hostel.Allocation = &alloc
		d = alloc.Email
	} else {
		if s.CredentialEmail == nil {
			s.CredentialEmail = &models.EmailDelivery{}
		} else {
			email := *s.CredentialEmail
			s.CredentialEmail = &email
		}
		d = s.CredentialEmail
	}
	return d, nil
}

// RecordEmailAttempt mirrors the repository: delivery writes leave the
// version alone.
func (m *studentRepoMock) RecordEmailAttempt(_ context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, sendErr error, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.delivery(kind, id)
	if err != nil {
		return err
	}
	d.Status = status
	d.Attempts++
	d.LastAttemptAt = &at
	if sendErr != nil {
		d.LastError = sendErr.Error()
	} else {
		d.LastError = ""
		d.SentAt = &at
	}
	return nil
}

func (m *studentRepoMock) SetEmailStatus(_ context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.delivery(kind, id)
	if err != nil {
		return err
	}
	d.Status = status
	if lastError != "" {
		d.LastError = lastError
	}
	return nil
}

func (m *studentRepoMock) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.students, id)
	return nil
}

func (m *studentRepoMock) ListHostelApplications(context.Context) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, s := range m.students {
		if s.Hostel.Applied {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *studentRepoMock) FindRoommates(_ context.Context, self primitive.ObjectID, roomType models.RoomType, roomNumber string) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, s := range m.students {
		a := s.Hostel.Allocation
		if s.ID == self || a == nil || a.Status != models.AllocationActive {
			continue
		}
		if a.RoomType == roomType && a.RoomNumber == roomNumber {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *studentRepoMock) OccupiedRooms(context.Context) (map[models.RoomType]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := map[models.RoomType]map[string]bool{}
	for _, s := range m.students {
		a := s.Hostel.Allocation
		if a == nil || a.Status != models.AllocationActive {
			continue
		}
		if rooms[a.RoomType] == nil {
			rooms[a.RoomType] = map[string]bool{}
		}
		rooms[a.RoomType][a.RoomNumber] = true
	}
	out := map[models.RoomType]int{}
	for t, set := range rooms {
		out[t] = len(set)
	}
	return out, nil
}

func (m *studentRepoMock) CountApproved(_ context.Context, course, semester string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.students {
		if s.AdmissionStatus == models.AdmissionApproved && s.AcademicInfo.Semester == semester &&
			strings.Contains(strings.ToLower(s.AcademicInfo.Course), strings.ToLower(course)) {
			n++
		}
	}
	return n, nil
}

func (m *studentRepoMock) CountByStatus(_ context.Context, status models.AdmissionStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.students {
		if s.AdmissionStatus == status {
			n++
		}
	}
	return n, nil
}

func (m *studentRepoMock) CountActiveAllocations(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.students {
		if s.Hostel.AllocationStatus() == models.AllocationActive {
			n++
		}
	}
	return n, nil
}

type documentsMock struct {
	stored  *models.Documents
	removed []string
	links   []DocumentLink
}

func (d *documentsMock) ValidateCounts(uploads map[string][]UploadedFile) error {
	if len(uploads[SlotProfilePhoto]) > 1 {
		return appErrors.Clone(appErrors.ErrValidation, "too many files")
	}
	return nil
}

func (d *documentsMock) Store(_ context.Context, uploads map[string][]UploadedFile) (*models.Documents, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	return d.stored, nil
}

func (d *documentsMock) Remove(_ context.Context, paths []string) {
	d.removed = append(d.removed, paths...)
}

func (d *documentsMock) Links(*models.Student) ([]DocumentLink, error) {
	return d.links, nil
}

type notifierMock struct {
	mu          sync.Mutex
	reject      bool
	credentials map[primitive.ObjectID]string
	allocations []primitive.ObjectID
}

func newNotifierMock() *notifierMock {
	return &notifierMock{credentials: map[primitive.ObjectID]string{}}
}

func (n *notifierMock) QueueCredentials(_ context.Context, id primitive.ObjectID, password string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.credentials[id] = password
	return !n.reject
}

func (n *notifierMock) QueueAllocation(_ context.Context, id primitive.ObjectID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.allocations = append(n.allocations, id)
	return !n.reject
}

// cacheRepoMock stores JSON payloads in memory.
type cacheRepoMock struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newCacheRepoMock() *cacheRepoMock {
	return &cacheRepoMock{data: map[string][]byte{}}
}

func (c *cacheRepoMock) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheRepoMock) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *cacheRepoMock) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *cacheRepoMock) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			c.deleted = append(c.deleted, k)
		}
	}
	return nil
}

func (c *cacheRepoMock) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
