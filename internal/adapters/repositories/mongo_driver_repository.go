package repositories

import (
	"context"
	"errors"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDriverRepository implements ports.DriverRepository on a MongoDB collection.
// List updates use $push/$pullAll so concurrent writers never lose an append.
type MongoDriverRepository struct {
	coll *mongo.Collection
}

func NewMongoDriverRepository(db *mongo.Database) *MongoDriverRepository {
	return &MongoDriverRepository{coll: db.Collection(driversCollection)}
}

func (r *MongoDriverRepository) ListDrivers(ctx context.Context) (_ []*domain.Driver, err error) {
	defer obs.Time(ctx, "mongo.drivers.List")(&err)
	return r.find(ctx, bson.M{})
}

func (r *MongoDriverRepository) ListDriversByDepartment(ctx context.Context, department string) (_ []*domain.Driver, err error) {
	defer obs.Time(ctx, "mongo.drivers.ListByDepartment")(&err)
	return r.find(ctx, bson.M{"department": department})
}

func (r *MongoDriverRepository) GetDriver(ctx context.Context, id string) (_ *domain.Driver, err error) {
	defer obs.Time(ctx, "mongo.drivers.Get")(&err)

	oid, err := objectID(id)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}

	var doc driverDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("get driver %q: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get driver %q: %w", id, err)
	}
	return doc.toDomain(), nil
}

func (r *MongoDriverRepository) CreateDriver(ctx context.Context, d *domain.Driver) (_ string, err error) {
	defer obs.Time(ctx, "mongo.drivers.Create")(&err)

	doc := driverDocument{
		DriverCode:  d.DriverCode,
		Name:        d.Name,
		Department:  string(d.Department),
		LicenseCode: d.LicenseCode,
		IsActive:    d.IsActive,
		// Stored as [] rather than null so $push always has an array to extend.
		AssignedPackages: make([]primitive.ObjectID, 0),
		CreatedAt:        d.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create driver: insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("create driver: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoDriverRepository) UpdateDriver(ctx context.Context, id string, patch domain.DriverPatch) (err error) {
	defer obs.Time(ctx, "mongo.drivers.Update")(&err)

	oid, err := objectID(id)
	if err != nil {
		return fmt.Errorf("update driver: %w", err)
	}

	set := bson.M{}
	if patch.LicenseCode != nil {
		set["license_code"] = *patch.LicenseCode
	}
	if patch.Department != nil {
		set["department"] = *patch.Department
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update driver %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update driver %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *MongoDriverRepository) DeleteDriver(ctx context.Context, id string) (_ int64, err error) {
	defer obs.Time(ctx, "mongo.drivers.Delete")(&err)

	oid, err := objectID(id)
	if err != nil {
		return 0, fmt.Errorf("delete driver: %w", err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete driver %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return 0, fmt.Errorf("delete driver %q: %w", id, domain.ErrNotFound)
	}
	return res.DeletedCount, nil
}

func (r *MongoDriverRepository) AppendPackage(ctx context.Context, driverID, packageID string) (err error) {
	defer obs.Time(ctx, "mongo.drivers.AppendPackage")(&err)

	doid, err := objectID(driverID)
	if err != nil {
		return fmt.Errorf("append package: driver: %w", err)
	}
	poid, err := primitive.ObjectIDFromHex(packageID)
	if err != nil {
		return fmt.Errorf("append package: package id %q: %w", packageID, domain.ErrValidation)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": doid},
		bson.M{"$push": bson.M{"assigned_packages": poid}},
	)
	if err != nil {
		return fmt.Errorf("append package to driver %q: %w", driverID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("append package to driver %q: %w", driverID, domain.ErrNotFound)
	}
	return nil
}

func (r *MongoDriverRepository) RemovePackages(ctx context.Context, driverID string, packageIDs ...string) (err error) {
	defer obs.Time(ctx, "mongo.drivers.RemovePackages")(&err)

	doid, err := objectID(driverID)
	if err != nil {
		return fmt.Errorf("remove packages: driver: %w", err)
	}
	oids := objectIDs(packageIDs)
	if len(oids) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": doid},
		bson.M{"$pullAll": bson.M{"assigned_packages": oids}},
	)
	if err != nil {
		return fmt.Errorf("remove packages from driver %q: %w", driverID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("remove packages from driver %q: %w", driverID, domain.ErrNotFound)
	}
	return nil
}

func (r *MongoDriverRepository) CountDrivers(ctx context.Context) (_ int64, err error) {
	defer obs.Time(ctx, "mongo.drivers.Count")(&err)

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count drivers: %w", err)
	}
	return n, nil
}

func (r *MongoDriverRepository) find(ctx context.Context, filter bson.M) ([]*domain.Driver, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find drivers: %w", err)
	}

	var docs []driverDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("find drivers: decode: %w", err)
	}

	drivers := make([]*domain.Driver, 0, len(docs))
	for _, doc := range docs {
		drivers = append(drivers, doc.toDomain())
	}
	return drivers, nil
}
