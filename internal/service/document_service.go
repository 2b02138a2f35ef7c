package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

// Upload form fields and how many files each accepts.
const (
	SlotProfilePhoto         = "profilePhoto"
	SlotIDProof              = "idProof"
	SlotAddressProof         = "addressProof"
	SlotAcademicCertificates = "academicCertificates"
	SlotOtherDocuments       = "otherDocuments"
)

var documentSlots = []struct {
	name  string
	limit int
}{
	{SlotProfilePhoto, 1},
	{SlotIDProof, 1},
	{SlotAddressProof, 1},
	{SlotAcademicCertificates, 5},
	{SlotOtherDocuments, 3},
}

// DocumentSlots lists the accepted upload field names.
func DocumentSlots() []string {
	names := make([]string, len(documentSlots))
	for i, slot := range documentSlots {
		names[i] = slot.name
	}
	return names
}

const admissionsFolder = "admissions"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

type documentStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

type documentSigner interface {
	Generate(ownerID, relPath string) (string, time.Time, error)
	Parse(token string) (ownerID, relPath string, err error)
}

type documentOwnerFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
}

// UploadedFile is one file received in a multipart form.
type UploadedFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// DocumentLink is a signed, expiring download link for a stored document.
type DocumentLink struct {
	Slot      string    `json:"slot"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DocumentDownload is an opened stored document ready to stream.
type DocumentDownload struct {
	File      *os.File
	Filename  string
	MimeType  string
	SizeBytes int64
}

// DocumentServiceConfig holds upload limits and link settings.
type DocumentServiceConfig struct {
	MaxFileSize    int64
	AllowedMIMEs   []string
	ThumbnailMaxPx int
	APIPrefix      string
}

// DocumentService stores admission uploads and serves them back behind
// signed tokens.
type DocumentService struct {
	storage documentStorage
	signer  documentSigner
	owners  documentOwnerFinder
	logger  *zap.Logger
	cfg     DocumentServiceConfig
}

// NewDocumentService constructs the service with defaults.
func NewDocumentService(storage documentStorage, signer documentSigner, owners documentOwnerFinder, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	if cfg.ThumbnailMaxPx <= 0 {
		cfg.ThumbnailMaxPx = 512
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	return &DocumentService{storage: storage, signer: signer, owners: owners, logger: logger, cfg: cfg}
}

// ValidateCounts checks per-field file limits before anything is stored.
func (s *DocumentService) ValidateCounts(uploads map[string][]UploadedFile) error {
	var details []string
	for _, slot := range documentSlots {
		if n := len(uploads[slot.name]); n > slot.limit {
			details = append(details, fmt.Sprintf("%s accepts at most %d file(s), got %d", slot.name, slot.limit, n))
		}
	}
	if len(details) > 0 {
		return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "too many files"), details...)
	}
	return nil
}

// Store validates and saves the uploads. On failure every file already
// written is removed again.
func (s *DocumentService) Store(ctx context.Context, uploads map[string][]UploadedFile) (*models.Documents, error) {
	if err := s.ValidateCounts(uploads); err != nil {
		return nil, err
	}
	docs := &models.Documents{}
	var saved []string
	fail := func(err error) (*models.Documents, error) {
		s.Remove(ctx, saved)
		return nil, err
	}

	for _, slot := range documentSlots {
		for _, file := range uploads[slot.name] {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}
			name, err := s.storeOne(slot.name, file)
			if err != nil {
				return fail(err)
			}
			saved = append(saved, name)
			switch slot.name {
			case SlotProfilePhoto:
				docs.ProfilePhoto = name
			case SlotIDProof:
				docs.IDProof = name
			case SlotAddressProof:
				docs.AddressProof = name
			case SlotAcademicCertificates:
				docs.AcademicCertificates = append(docs.AcademicCertificates, name)
			case SlotOtherDocuments:
				docs.OtherDocuments = append(docs.OtherDocuments, name)
			}
		}
	}
	if len(saved) == 0 {
		return nil, nil
	}
	return docs, nil
}

func (s *DocumentService) storeOne(slot string, file UploadedFile) (string, error) {
	invalid := func(format string, args ...interface{}) error {
		return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid document upload"),
			fmt.Sprintf("%s: %s", slot, fmt.Sprintf(format, args...)))
	}
	if file.Size > s.cfg.MaxFileSize {
		return "", invalid("%s exceeds %d bytes", file.Filename, s.cfg.MaxFileSize)
	}
	if file.Open == nil {
		return "", invalid("%s could not be read", file.Filename)
	}
	src, err := file.Open()
	if err != nil {
		return "", internalError(err, "failed to open upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxFileSize+1))
	if err != nil {
		return "", internalError(err, "failed to read upload")
	}
	if len(data) == 0 {
		return "", invalid("%s is empty", file.Filename)
	}
	if int64(len(data)) > s.cfg.MaxFileSize {
		return "", invalid("%s exceeds %d bytes", file.Filename, s.cfg.MaxFileSize)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), s.cfg.AllowedMIMEs...) {
		return "", invalid("file type %s is not allowed", mt.String())
	}

	filename := file.Filename
	if slot == SlotProfilePhoto {
		if !strings.HasPrefix(mt.String(), "image/") {
			return "", invalid("profile photo must be an image")
		}
		data, err = s.thumbnail(data)
		if err != nil {
			return "", invalid("profile photo could not be decoded")
		}
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}

	name := storedName(admissionsFolder, filename)
	if _, err := s.storage.Save(name, data); err != nil {
		return "", internalError(err, "failed to store document")
	}
	return name, nil
}

// thumbnail fits the photo inside the configured square and re-encodes it
// as JPEG. Smaller photos keep their size.
func (s *DocumentService) thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	img = imaging.Fit(img, s.cfg.ThumbnailMaxPx, s.cfg.ThumbnailMaxPx, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Remove deletes stored files best-effort; failures are only logged.
func (s *DocumentService) Remove(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.storage.Delete(p); err != nil {
			s.logger.Warn("failed to remove stored document", zap.String("path", p), zap.Error(err))
		}
	}
}

// Links issues a signed download link for every stored document of student.
func (s *DocumentService) Links(student *models.Student) ([]DocumentLink, error) {
	if student.Documents == nil {
		return []DocumentLink{}, nil
	}
	d := student.Documents
	type entry struct{ slot, path string }
	entries := []entry{{SlotProfilePhoto, d.ProfilePhoto}, {SlotIDProof, d.IDProof}, {SlotAddressProof, d.AddressProof}}
	for _, p := range d.AcademicCertificates {
		entries = append(entries, entry{SlotAcademicCertificates, p})
	}
	for _, p := range d.OtherDocuments {
		entries = append(entries, entry{SlotOtherDocuments, p})
	}

	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	links := make([]DocumentLink, 0, len(entries))
	for _, e := range entries {
		if e.path == "" {
			continue
		}
		token, expiresAt, err := s.signer.Generate(student.ID.Hex(), e.path)
		if err != nil {
			return nil, internalError(err, "failed to sign document link")
		}
		links = append(links, DocumentLink{
			Slot:      e.slot,
			Path:      e.path,
			URL:       fmt.Sprintf("%s/documents/download?token=%s", base, token),
			ExpiresAt: expiresAt,
		})
	}
	return links, nil
}

// Download validates token and opens the referenced file. The file must
// still belong to the student named in the token.
func (s *DocumentService) Download(ctx context.Context, token string) (*DocumentDownload, error) {
	ownerID, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired token")
	}
	id, err := objectID(ownerID, "document not found")
	if err != nil {
		return nil, err
	}
	student, err := s.owners.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "document not found", "failed to load document owner")
	}
	if !ownsDocument(student, relPath) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
	}

	file, err := s.storage.Open(relPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, internalError(err, "failed to open document")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, internalError(err, "failed to read document metadata")
	}

	head := make([]byte, 3072)
	n, _ := io.ReadFull(file, head)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close() //nolint:errcheck
		return nil, internalError(err, "failed to rewind document")
	}

	return &DocumentDownload{
		File:      file,
		Filename:  path.Base(relPath),
		MimeType:  mimetype.Detect(head[:n]).String(),
		SizeBytes: info.Size(),
	}, nil
}

func ownsDocument(student *models.Student, relPath string) bool {
	for _, p := range student.Documents.Paths() {
		if p == relPath {
			return true
		}
	}
	return false
}

// storedName builds folder/<yyyymmdd>-<uuid>-<sanitised name>.
func storedName(folder, original string) string {
	safe := unsafeFilenameChars.ReplaceAllString(filepath.Base(original), "_")
	if safe == "" || safe == "." {
		safe = "file"
	}
	return fmt.Sprintf("%s/%s-%s-%s", folder, time.Now().UTC().Format("20060102"), uuid.NewString(), safe)
}
