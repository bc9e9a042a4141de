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

// MongoPackageRepository implements ports.PackageRepository on a MongoDB collection.
type MongoPackageRepository struct {
	coll *mongo.Collection
}

func NewMongoPackageRepository(db *mongo.Database) *MongoPackageRepository {
	return &MongoPackageRepository{coll: db.Collection(packagesCollection)}
}

func (r *MongoPackageRepository) ListPackages(ctx context.Context) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "mongo.packages.List")(&err)
	return r.find(ctx, bson.M{})
}

func (r *MongoPackageRepository) GetPackage(ctx context.Context, id string) (_ *domain.Package, err error) {
	defer obs.Time(ctx, "mongo.packages.Get")(&err)

	oid, err := objectID(id)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}

	var doc packageDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("get package %q: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get package %q: %w", id, err)
	}
	return doc.toDomain(), nil
}

func (r *MongoPackageRepository) GetPackagesByIDs(ctx context.Context, ids []string) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "mongo.packages.GetByIDs")(&err)

	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Package{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *MongoPackageRepository) CreatePackage(ctx context.Context, p *domain.Package) (_ string, err error) {
	defer obs.Time(ctx, "mongo.packages.Create")(&err)

	driverOID, err := primitive.ObjectIDFromHex(p.DriverID)
	if err != nil {
		return "", fmt.Errorf("create package: driver id %q: %w", p.DriverID, domain.ErrValidation)
	}

	doc := packageDocument{
		PackageCode: p.PackageCode,
		Title:       p.Title,
		WeightKg:    p.WeightKg,
		Destination: p.Destination,
		Description: p.Description,
		IsAllocated: p.IsAllocated,
		DriverID:    driverOID,
		CreatedAt:   p.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create package: insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("create package: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoPackageRepository) UpdatePackageDestination(ctx context.Context, id string, destination string) (err error) {
	defer obs.Time(ctx, "mongo.packages.UpdateDestination")(&err)

	oid, err := objectID(id)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"destination": destination}})
	if err != nil {
		return fmt.Errorf("update package %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update package %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *MongoPackageRepository) DeletePackage(ctx context.Context, id string) (_ int64, err error) {
	defer obs.Time(ctx, "mongo.packages.Delete")(&err)

	oid, err := objectID(id)
	if err != nil {
		return 0, fmt.Errorf("delete package: %w", err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete package %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return 0, fmt.Errorf("delete package %q: %w", id, domain.ErrNotFound)
	}
	return res.DeletedCount, nil
}

func (r *MongoPackageRepository) DeletePackagesByIDs(ctx context.Context, ids []string) (_ int64, err error) {
	defer obs.Time(ctx, "mongo.packages.DeleteMany")(&err)

	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("delete packages: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoPackageRepository) CountPackages(ctx context.Context) (_ int64, err error) {
	defer obs.Time(ctx, "mongo.packages.Count")(&err)

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count packages: %w", err)
	}
	return n, nil
}

func (r *MongoPackageRepository) find(ctx context.Context, filter bson.M) ([]*domain.Package, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find packages: %w", err)
	}

	var docs []packageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("find packages: decode: %w", err)
	}

	packages := make([]*domain.Package, 0, len(docs))
	for _, doc := range docs {
		packages = append(packages, doc.toDomain())
	}
	return packages, nil
}
