package route

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cargoassist/database"
	"cargoassist/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routesCollection = "routes"

// MongoRouteRepo implements Repository backed by the routes collection.
type MongoRouteRepo struct{}

func NewMongoRouteRepo() *MongoRouteRepo {
	return &MongoRouteRepo{}
}

func (r *MongoRouteRepo) coll() *mongo.Collection {
	return database.Collection(routesCollection)
}

// FindRoute looks up a lane by uppercase IATA pair.
func (r *MongoRouteRepo) FindRoute(ctx context.Context, origin, destination string) (*models.Route, error) {
	filter := bson.M{
		"origin":      strings.ToUpper(origin),
		"destination": strings.ToUpper(destination),
	}
	var route models.Route
	err := r.coll().FindOne(ctx, filter).Decode(&route)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find route %s-%s: %w", origin, destination, err)
	}
	return &route, nil
}

// ListRoutes returns all lanes, ordered by origin then destination.
func (r *MongoRouteRepo) ListRoutes(ctx context.Context) ([]models.Route, error) {
	opts := options.Find().SetSort(bson.D{{Key: "origin", Value: 1}, {Key: "destination", Value: 1}})
	cur, err := r.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer cur.Close(ctx)

	var routes []models.Route
	if err := cur.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return routes, nil
}

// seedRoutes is the fixed lane table loaded at startup. Prices are USD/kg.
var seedRoutes = []models.Route{
	{Origin: "JFK", Destination: "LHR", BasePricePerKg: 2.50, TransitDays: 1},
	{Origin: "LHR", Destination: "JFK", BasePricePerKg: 2.50, TransitDays: 1},
	{Origin: "JFK", Destination: "CDG", BasePricePerKg: 2.60, TransitDays: 1},
	{Origin: "CDG", Destination: "JFK", BasePricePerKg: 2.60, TransitDays: 1},
	{Origin: "LAX", Destination: "NRT", BasePricePerKg: 3.80, TransitDays: 2},
	{Origin: "NRT", Destination: "LAX", BasePricePerKg: 3.80, TransitDays: 2},
	{Origin: "ORD", Destination: "FRA", BasePricePerKg: 2.90, TransitDays: 1},
	{Origin: "FRA", Destination: "ORD", BasePricePerKg: 2.90, TransitDays: 1},
	{Origin: "ATL", Destination: "LHR", BasePricePerKg: 2.70, TransitDays: 1},
	{Origin: "DFW", Destination: "HKG", BasePricePerKg: 4.10, TransitDays: 2},
	{Origin: "LHR", Destination: "DXB", BasePricePerKg: 2.40, TransitDays: 1},
	{Origin: "DXB", Destination: "BOM", BasePricePerKg: 1.90, TransitDays: 1},
	{Origin: "BOM", Destination: "SIN", BasePricePerKg: 2.10, TransitDays: 1},
	{Origin: "SIN", Destination: "SYD", BasePricePerKg: 3.20, TransitDays: 1},
	{Origin: "SYD", Destination: "SIN", BasePricePerKg: 3.20, TransitDays: 1},
	{Origin: "PVG", Destination: "LAX", BasePricePerKg: 3.60, TransitDays: 2},
	{Origin: "HKG", Destination: "SYD", BasePricePerKg: 3.00, TransitDays: 2},
	{Origin: "NRT", Destination: "SIN", BasePricePerKg: 2.80, TransitDays: 1},
}

// EnsureSeedData creates the unique lane index and upserts the reference
// lanes. Reruns are no-ops.
func (r *MongoRouteRepo) EnsureSeedData(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := r.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "origin", Value: 1}, {Key: "destination", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create route index: %w", err)
	}

	for _, rt := range seedRoutes {
		filter := bson.M{"origin": rt.Origin, "destination": rt.Destination}
		update := bson.M{"$setOnInsert": rt}
		if _, err := r.coll().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed route %s-%s: %w", rt.Origin, rt.Destination, err)
		}
	}
	return nil
}
