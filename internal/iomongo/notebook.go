package iomongo

import (
	"context"
	"time"

	"github.com/gnames/fungidb/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (u userDoc) toUser() store.User {
	return store.User{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

type noteDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"userId"`
	Date           *time.Time         `bson:"date,omitempty"`
	Latitude       *float64           `bson:"latitude,omitempty"`
	Longitude      *float64           `bson:"longitude,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Place          string             `bson:"place"`
	SpeciesID      string             `bson:"speciesId,omitempty"`
	ScientificName string             `bson:"scientificName,omitempty"`
	VernacularName string             `bson:"vernacularName,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (n noteDoc) toNote() store.Note {
	res := store.Note{
		ID:             n.ID.Hex(),
		UserID:         n.UserID.Hex(),
		Title:          n.Title,
		Description:    n.Description,
		Place:          n.Place,
		SpeciesID:      n.SpeciesID,
		ScientificName: n.ScientificName,
		VernacularName: n.VernacularName,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
	if n.Date != nil {
		res.Date = store.NewDate(*n.Date)
	}
	if n.Latitude != nil {
		res.Latitude = store.NewCoordinate(*n.Latitude)
	}
	if n.Longitude != nil {
		res.Longitude = store.NewCoordinate(*n.Longitude)
	}
	return res
}

func (m *mongoStore) CreateUser(ctx context.Context, u *store.User) error {
	u.Email = store.NormalizeEmail(u.Email)
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    m.now().UTC(),
	}
	_, err := m.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return err
	}
	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	return nil
}

func (m *mongoStore) UserByEmail(ctx context.Context, email string) (store.User, error) {
	var doc userDoc
	filter := bson.M{"email": store.NormalizeEmail(email)}
	err := m.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return store.User{}, notFound(err)
	}
	return doc.toUser(), nil
}

func (m *mongoStore) CreateNote(ctx context.Context, n *store.Note) error {
	uid, err := objectID(n.UserID)
	if err != nil {
		return err
	}

	now := m.now().UTC()
	doc := noteDoc{
		ID:             primitive.NewObjectID(),
		UserID:         uid,
		Title:          n.Title,
		Description:    n.Description,
		Place:          n.Place,
		SpeciesID:      n.SpeciesID,
		ScientificName: n.ScientificName,
		VernacularName: n.VernacularName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if n.Date != nil {
		t := n.Date.Time
		doc.Date = &t
	}
	if n.Latitude != nil {
		f := n.Latitude.Float()
		doc.Latitude = &f
	}
	if n.Longitude != nil {
		f := n.Longitude.Float()
		doc.Longitude = &f
	}

	if _, err := m.notes.InsertOne(ctx, doc); err != nil {
		return err
	}
	n.ID = doc.ID.Hex()
	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

func (m *mongoStore) Notes(ctx context.Context, userID string) ([]store.Note, error) {
	filter := bson.M{}
	if userID != "" {
		uid, err := objectID(userID)
		if err != nil {
			return nil, err
		}
		filter["userId"] = uid
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.notes.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	res := []store.Note{}
	for cur.Next(ctx) {
		var doc noteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		res = append(res, doc.toNote())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *mongoStore) UpdateNote(
	ctx context.Context,
	id string,
	upd store.NoteUpdate,
) (store.Note, error) {
	oid, err := objectID(id)
	if err != nil {
		return store.Note{}, err
	}

	set := bson.M{"updatedAt": m.now().UTC()}
	if upd.Date != nil {
		set["date"] = upd.Date.Time
	}
	if upd.Latitude != nil {
		set["latitude"] = upd.Latitude.Float()
	}
	if upd.Longitude != nil {
		set["longitude"] = upd.Longitude.Float()
	}
	setString(set, "title", upd.Title)
	setString(set, "description", upd.Description)
	setString(set, "place", upd.Place)
	setString(set, "speciesId", upd.SpeciesID)
	setString(set, "scientificName", upd.ScientificName)
	setString(set, "vernacularName", upd.VernacularName)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc noteDoc
	err = m.notes.FindOneAndUpdate(
		ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts,
	).Decode(&doc)
	if err != nil {
		return store.Note{}, notFound(err)
	}
	return doc.toNote(), nil
}

func (m *mongoStore) DeleteNote(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.notes.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func setString(set bson.M, key string, val *string) {
	if val != nil {
		set[key] = *val
	}
}
