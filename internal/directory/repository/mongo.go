package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/corpdesk/corpdesk/internal/authz"
	"github.com/corpdesk/corpdesk/internal/directory"
)

// MongoRepository implements Repository over employees and departments
// collections.
type MongoRepository struct {
	employees   *mongo.Collection
	departments *mongo.Collection
}

func NewMongoRepository(employees, departments *mongo.Collection) *MongoRepository {
	return &MongoRepository{employees: employees, departments: departments}
}

func (r *MongoRepository) InsertIfAbsent(ctx context.Context, e *directory.Employee) (bool, error) {
	now := time.Now().UTC()
	// $setOnInsert makes duplicate deliveries a no-op instead of an error
	update := bson.M{"$setOnInsert": bson.M{
		"username":  e.Username,
		"email":     e.Email,
		"fullName":  e.FullName,
		"createdAt": now,
		"updatedAt": now,
	}}
	res, err := r.employees.UpdateOne(ctx, bson.M{"_id": e.AuthUserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, e *directory.Employee) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"username":  e.Username,
			"email":     e.Email,
			"fullName":  e.FullName,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	_, err := r.employees.UpdateOne(ctx, bson.M{"_id": e.AuthUserID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, authUserID string) (bool, error) {
	res, err := r.employees.DeleteOne(ctx, bson.M{"_id": authUserID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) Get(ctx context.Context, authUserID string) (*directory.Employee, error) {
	var e directory.Employee
	if err := r.employees.FindOne(ctx, bson.M{"_id": authUserID}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]directory.Employee, error) {
	cur, err := r.employees.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []directory.Employee
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) Snapshot(ctx context.Context) (*authz.Graph, error) {
	g := &authz.Graph{}

	cur, err := r.employees.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var emps []directory.Employee
	if err := cur.All(ctx, &emps); err != nil {
		return nil, err
	}
	for _, e := range emps {
		g.Employees = append(g.Employees, authz.Employee{
			AuthUserID:      e.AuthUserID,
			DirectManagerID: e.DirectManagerID,
			DepartmentID:    e.DepartmentID,
		})
	}

	dcur, err := r.departments.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var deps []directory.Department
	if err := dcur.All(ctx, &deps); err != nil {
		return nil, err
	}
	for _, d := range deps {
		g.Departments = append(g.Departments, authz.Department{ID: d.ID, HeadUserID: d.HeadUserID})
	}
	return g, nil
}
