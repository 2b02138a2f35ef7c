package repository

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

const studentsCollection = "students"

// StudentRepository persists applicants and students in MongoDB.
type StudentRepository struct {
	collection *mongo.Collection
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{collection: db.Collection(studentsCollection)}
}

// EnsureIndexes creates the indexes the queries below rely on.
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_student_id")},
		{Keys: bson.D{{Key: "admissionStatus", Value: 1}, {Key: "submittedAt", Value: -1}}},
		{Keys: bson.D{{Key: "hostel.allocation.status", Value: 1}, {Key: "hostel.allocation.roomType", Value: 1}, {Key: "hostel.allocation.roomNumber", Value: 1}}},
		{Keys: bson.D{{Key: "hostel.applied", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create student indexes: %w", err)
	}
	return nil
}

// Create inserts a new student with version 1.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	student.Email = NormalizeEmail(student.Email)
	student.Version = 1
	if _, err := r.collection.InsertOne(ctx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appErrors.Clone(appErrors.ErrDuplicate, "Student with this email already exists")
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// FindByID returns mongo.ErrNoDocuments when the student does not exist.
func (r *StudentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	var student models.Student
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail looks a student up by normalised email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	if err := r.collection.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail reports whether an application already uses email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"email": NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check student email: %w", err)
	}
	return n > 0, nil
}

// List pages through students, newest submission first. Documents and the
// credential hash are not loaded.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	query := studentListFilter(filter)
	page := filter.PageRequest.Normalize()

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"documents": 0, "passwordHash": 0})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	students := make([]models.Student, 0, page.Limit)
	if err := cursor.All(ctx, &students); err != nil {
		return nil, 0, fmt.Errorf("decode students: %w", err)
	}
	return students, total, nil
}

// Update writes the student if its version still matches and bumps the
// version on success. The credential hash and email delivery state belong to
// the email worker and are only written when arm names their kind.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, arm ...models.EmailKind) error {
	expected := student.Version
	student.Email = NormalizeEmail(student.Email)
	update, err := studentUpdate(student, arm)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": student.ID, "version": expected}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appErrors.Clone(appErrors.ErrDuplicate, "student identifier already in use")
		}
		return fmt.Errorf("update student %s: %w", student.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return r.missOrStale(ctx, student.ID)
	}
	student.Version = expected + 1
	return nil
}

func (r *StudentRepository) missOrStale(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("check student %s: %w", id.Hex(), err)
	}
	if n == 0 {
		return mongo.ErrNoDocuments
	}
	return appErrors.ErrStaleWrite
}

// Delete removes the student document.
func (r *StudentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete student %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListHostelApplications returns every student who applied for a room.
func (r *StudentRepository) ListHostelApplications(ctx context.Context) ([]models.Student, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "hostel.application.appliedAt", Value: -1}}).
		SetProjection(bson.M{"firstName": 1, "lastName": 1, "email": 1, "academicInfo.course": 1, "hostel": 1, "version": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"hostel.applied": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list hostel applications: %w", err)
	}
	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode hostel applications: %w", err)
	}
	return students, nil
}

// FindRoommates lists the other active occupants of a room.
func (r *StudentRepository) FindRoommates(ctx context.Context, self primitive.ObjectID, roomType models.RoomType, roomNumber string) ([]models.Student, error) {
	filter := bson.M{
		"_id":                          bson.M{"$ne": self},
		"hostel.allocation.status":     models.AllocationActive,
		"hostel.allocation.roomType":   roomType,
		"hostel.allocation.roomNumber": roomNumber,
	}
	opts := options.Find().SetProjection(bson.M{"firstName": 1, "email": 1, "academicInfo.course": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find roommates: %w", err)
	}
	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode roommates: %w", err)
	}
	return students, nil
}

// OccupiedRooms counts distinct rooms with at least one active allocation,
// per room type.
func (r *StudentRepository) OccupiedRooms(ctx context.Context) (map[models.RoomType]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hostel.allocation.status": models.AllocationActive}}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{
			"roomType":   "$hostel.allocation.roomType",
			"roomNumber": "$hostel.allocation.roomNumber",
		}}}},
		{{Key: "$group", Value: bson.M{"_id": "$_id.roomType", "rooms": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate occupied rooms: %w", err)
	}
	var rows []struct {
		RoomType models.RoomType `bson:"_id"`
		Rooms    int             `bson:"rooms"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode occupied rooms: %w", err)
	}
	occupied := make(map[models.RoomType]int, len(rows))
	for _, row := range rows {
		occupied[row.RoomType] = row.Rooms
	}
	return occupied, nil
}

// CountApproved counts approved students of a semester whose course contains
// course, ignoring case.
func (r *StudentRepository) CountApproved(ctx context.Context, course, semester string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{
		"admissionStatus":       models.AdmissionApproved,
		"academicInfo.semester": semester,
		"academicInfo.course":   containsFold(course),
	})
	if err != nil {
		return 0, fmt.Errorf("count approved students: %w", err)
	}
	return n, nil
}

// CountByStatus counts applications in one admission status.
func (r *StudentRepository) CountByStatus(ctx context.Context, status models.AdmissionStatus) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"admissionStatus": status})
	if err != nil {
		return 0, fmt.Errorf("count %s students: %w", status, err)
	}
	return n, nil
}

// CountActiveAllocations counts students currently holding a bed.
func (r *StudentRepository) CountActiveAllocations(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"hostel.allocation.status": models.AllocationActive})
	if err != nil {
		return 0, fmt.Errorf("count active allocations: %w", err)
	}
	return n, nil
}

// ListFailedEmails returns failed deliveries that still have attempts left.
func (r *StudentRepository) ListFailedEmails(ctx context.Context, maxAttempts int) ([]models.PendingEmail, error) {
	var pending []models.PendingEmail
	for _, kind := range []models.EmailKind{models.EmailKindCredentials, models.EmailKindAllocation} {
		field := emailField(kind)
		filter := bson.M{
			field + ".status":   models.EmailStatusFailed,
			field + ".attempts": bson.M{"$lt": maxAttempts},
		}
		cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1, field: 1}))
		if err != nil {
			return nil, fmt.Errorf("find failed %s emails: %w", kind, err)
		}
		var students []models.Student
		if err := cursor.All(ctx, &students); err != nil {
			return nil, fmt.Errorf("decode failed %s emails: %w", kind, err)
		}
		for i := range students {
			delivery := deliveryOf(&students[i], kind)
			attempts := 0
			if delivery != nil {
				attempts = delivery.Attempts
			}
			pending = append(pending, models.PendingEmail{Kind: kind, StudentID: students[i].ID.Hex(), Attempts: attempts})
		}
	}
	return pending, nil
}

// SetEmailStatus overwrites the status of a delivery without counting an
// attempt. Delivery writes never touch the student's version.
func (r *StudentRepository) SetEmailStatus(ctx context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, lastError string) error {
	field := emailField(kind)
	set := bson.M{field + ".status": status}
	if lastError != "" {
		set[field+".lastError"] = lastError
	}
	return r.updateDelivery(ctx, id, bson.M{"$set": set})
}

// RecordEmailAttempt counts one send attempt and stores its outcome. A nil
// sendErr marks the delivery sent.
func (r *StudentRepository) RecordEmailAttempt(ctx context.Context, kind models.EmailKind, id primitive.ObjectID, status models.EmailStatus, sendErr error, at time.Time) error {
	return r.updateDelivery(ctx, id, attemptUpdate(kind, status, sendErr, at))
}

func attemptUpdate(kind models.EmailKind, status models.EmailStatus, sendErr error, at time.Time) bson.M {
	field := emailField(kind)
	set := bson.M{
		field + ".status":        status,
		field + ".lastAttemptAt": at,
	}
	update := bson.M{"$set": set, "$inc": bson.M{field + ".attempts": 1}}
	if sendErr != nil {
		set[field+".lastError"] = truncate(sendErr.Error(), 500)
	} else {
		set[field+".sentAt"] = at
		update["$unset"] = bson.M{field + ".lastError": ""}
	}
	return update
}

// ResetCredentials stores a fresh credential hash and re-arms the credential email.
func (r *StudentRepository) ResetCredentials(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateDelivery(ctx, id, bson.M{
		"$set": bson.M{
			"passwordHash":           passwordHash,
			"credentialEmail.status": models.EmailStatusPending,
		},
	})
}

func (r *StudentRepository) updateDelivery(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update email delivery for %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Ping verifies the database is reachable.
func (r *StudentRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

func studentListFilter(filter models.StudentFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["admissionStatus"] = filter.Status
	}
	return query
}

var (
	studentKeys    = bsonKeys(reflect.TypeOf(models.Student{}))
	hostelKeys     = bsonKeys(reflect.TypeOf(models.Hostel{}))
	allocationKeys = bsonKeys(reflect.TypeOf(models.HostelAllocation{}))
)

// studentUpdate turns a student into a field-level update: present fields
// are set, fields the encoder omitted are unset.
func studentUpdate(student *models.Student, arm []models.EmailKind) (bson.M, error) {
	raw, err := bson.Marshal(student)
	if err != nil {
		return nil, fmt.Errorf("encode student %s: %w", student.ID.Hex(), err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode student %s: %w", student.ID.Hex(), err)
	}

	set, unset := bson.M{}, bson.M{}
	assign := func(path string, from bson.M, key string) {
		if v, ok := from[key]; ok {
			set[path] = v
		} else {
			unset[path] = ""
		}
	}
	for _, key := range studentKeys {
		switch key {
		case "_id", "version":
		case "passwordHash", "credentialEmail":
			if slices.Contains(arm, models.EmailKindCredentials) {
				assign(key, doc, key)
			}
		case "hostel":
			hostel := subdocument(doc[key])
			for _, hk := range hostelKeys {
				if hk != "allocation" {
					assign("hostel."+hk, hostel, hk)
					continue
				}
				alloc := subdocument(hostel[hk])
				if alloc == nil {
					unset["hostel.allocation"] = ""
					continue
				}
				for _, ak := range allocationKeys {
					if ak == "email" && !slices.Contains(arm, models.EmailKindAllocation) {
						continue
					}
					assign("hostel.allocation."+ak, alloc, ak)
				}
			}
		default:
			assign(key, doc, key)
		}
	}

	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func subdocument(v interface{}) bson.M {
	switch d := v.(type) {
	case bson.M:
		return d
	case bson.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m
	}
	return nil
}

func bsonKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("bson"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

func emailField(kind models.EmailKind) string {
	if kind == models.EmailKindAllocation {
		return "hostel.allocation.email"
	}
	return "credentialEmail"
}

func deliveryOf(s *models.Student, kind models.EmailKind) *models.EmailDelivery {
	if kind == models.EmailKindAllocation {
		if s.Hostel.Allocation == nil {
			return nil
		}
		return s.Hostel.Allocation.Email
	}
	return s.CredentialEmail
}

// NormalizeEmail lowercases and trims an address before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// containsFold matches values containing text, case-insensitively. text is
// matched literally.
func containsFold(text string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
