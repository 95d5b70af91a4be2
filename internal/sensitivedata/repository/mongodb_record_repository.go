package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/definescope/definerails-sensitivedata/internal/errors"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// RecordsCollection is the MongoDB collection holding records.
const RecordsCollection = "sensitive_records"

// recordDocument is the MongoDB shape of a record: one document per record
// with every encrypted slot under fields, keyed by its column name
// (encrypted_<name> and encrypted_<name>_iv). A nil slot is stored as null.
type recordDocument struct {
	ID            string             `bson:"_id"`
	Kind          string             `bson:"kind"`
	EncryptionKey string             `bson:"encryption_key"`
	Version       int64              `bson:"version"`
	Fields        map[string]*string `bson:"fields"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toDocument(record *sensitivedataDomain.Record) recordDocument {
	fields := make(map[string]*string, len(record.Fields)*2)
	for name, field := range record.Fields {
		fields[sensitivedataDomain.CiphertextColumn(name)] = field.Ciphertext
		fields[sensitivedataDomain.IVColumn(name)] = field.IV
	}

	return recordDocument{
		ID:            record.ID.String(),
		Kind:          record.Kind,
		EncryptionKey: record.EncryptionKey,
		Version:       record.Version,
		Fields:        fields,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func fromDocument(doc recordDocument) (*sensitivedataDomain.Record, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse record id")
	}

	record := &sensitivedataDomain.Record{
		ID:            id,
		Kind:          doc.Kind,
		EncryptionKey: doc.EncryptionKey,
		Version:       doc.Version,
		Fields:        make(map[string]sensitivedataDomain.EncryptedField),
		CreatedAt:     doc.CreatedAt.UTC(),
		UpdatedAt:     doc.UpdatedAt.UTC(),
	}

	for column, ciphertext := range doc.Fields {
		name, ok := sensitivedataDomain.FieldNameFromColumn(column)
		if !ok {
			continue
		}
		record.Fields[name] = sensitivedataDomain.EncryptedField{
			Ciphertext: ciphertext,
			IV:         doc.Fields[sensitivedataDomain.IVColumn(name)],
		}
	}
	return record, nil
}

// stateFilter builds the query for a field state. In MongoDB {x: null}
// matches both null and missing, so a never-written field counts as nil.
func stateFilter(kind, field string, state sensitivedataDomain.FieldState) (bson.D, error) {
	path := "fields." + sensitivedataDomain.CiphertextColumn(field)

	var condition any
	switch state {
	case sensitivedataDomain.FieldStateNil:
		condition = nil
	case sensitivedataDomain.FieldStateEmpty:
		condition = ""
	case sensitivedataDomain.FieldStateEncrypted:
		condition = bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}
	default:
		return nil, sensitivedataDomain.ErrInvalidFieldState
	}

	return bson.D{
		{Key: "kind", Value: kind},
		{Key: path, Value: condition},
	}, nil
}

// MongoDBRecordRepository implements Record persistence for MongoDB.
//
// Each record is a single document, so every write is atomic without a
// transaction; the version check is part of the update filter.
type MongoDBRecordRepository struct {
	collection *mongo.Collection
}

// Create inserts a new record document.
func (m *MongoDBRecordRepository) Create(ctx context.Context, record *sensitivedataDomain.Record) error {
	if _, err := m.collection.InsertOne(ctx, toDocument(record)); err != nil {
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// Get retrieves a record document.
func (m *MongoDBRecordRepository) Get(ctx context.Context, id uuid.UUID) (*sensitivedataDomain.Record, error) {
	var doc recordDocument
	err := m.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sensitivedataDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}
	return fromDocument(doc)
}

// Update replaces the salt and fields when the stored version matches.
func (m *MongoDBRecordRepository) Update(
	ctx context.Context,
	record *sensitivedataDomain.Record,
	expectedVersion int64,
) error {
	now := time.Now().UTC()
	doc := toDocument(record)

	filter := bson.D{
		{Key: "_id", Value: doc.ID},
		{Key: "version", Value: expectedVersion},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "encryption_key", Value: doc.EncryptionKey},
			{Key: "fields", Value: doc.Fields},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}
	if result.MatchedCount == 0 {
		return sensitivedataDomain.ErrRecordConflict
	}

	record.Version = expectedVersion + 1
	record.UpdatedAt = now
	return nil
}

// ListByFieldState lists record headers by the stored state of one field.
func (m *MongoDBRecordRepository) ListByFieldState(
	ctx context.Context,
	kind, field string,
	state sensitivedataDomain.FieldState,
	offset, limit int,
) ([]*sensitivedataDomain.Record, error) {
	filter, err := stateFilter(kind, field, state)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "fields", Value: 0}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records")
	}

	var docs []recordDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode records")
	}

	records := make([]*sensitivedataDomain.Record, 0, len(docs))
	for _, doc := range docs {
		record, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// recordIndexes backs the kind filter of ListByFieldState, which sorts by _id.
func recordIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("kind_id"),
		},
	}
}

// EnsureIndexes creates the collection indexes. It is idempotent.
func (m *MongoDBRecordRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := m.collection.Indexes().CreateMany(ctx, recordIndexes()); err != nil {
		return apperrors.Wrap(err, "failed to create record indexes")
	}
	return nil
}

// NewMongoDBRecordRepository creates a new MongoDB Record repository instance.
func NewMongoDBRecordRepository(db *mongo.Database) *MongoDBRecordRepository {
	return &MongoDBRecordRepository{collection: db.Collection(RecordsCollection)}
}
