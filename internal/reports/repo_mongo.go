package reports

import (
	"context"
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stockreport-backend/internal/shared/storage/mongostore"
)

// MongoRepo implements Repo on the Mongo document store, writing the
// list and detail collections in one session transaction.
type MongoRepo struct {
	Stores *mongostore.Stores
}

// Save merge-upserts the list record and replaces the detail record.
// Only non-empty string fields go into the $set, so prior values
// survive sparse writes.
func (r *MongoRepo) Save(ctx context.Context, docID string, summary DocumentSummary, result AnalysisResult) error {
	detail, err := toBSON(result)
	if err != nil {
		return err
	}
	detail["_id"] = docID
	// Keep the timestamp an int64 on the wire; relaxed extended JSON
	// would otherwise render large doubles in exponent notation.
	detail["timestamp"] = result.Timestamp

	set := bson.M{
		"id":                    docID,
		"timestamp":             summary.Timestamp,
		"last_evaluation":       summary.LastEvaluation,
		"bullish_bearish_score": summary.BullishBearishScore,
	}
	setNonEmpty(set, "title", summary.Title)
	setNonEmpty(set, "category", summary.Category)
	setNonEmpty(set, "date", summary.Date)
	setNonEmpty(set, "author", summary.Author)
	setNonEmpty(set, "summary_headline", summary.SummaryHeadline)
	setNonEmpty(set, "sentiment", summary.Sentiment)

	session, err := r.Stores.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := r.Stores.Documents.UpdateByID(sc, docID,
			bson.M{"$set": set},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, err
		}
		if _, err := r.Stores.Analyses.ReplaceOne(sc,
			bson.M{"_id": docID},
			detail,
			options.Replace().SetUpsert(true),
		); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// List returns the list records newest first.
func (r *MongoRepo) List(ctx context.Context) ([]DocumentSummary, error) {
	cursor, err := r.Stores.Documents.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []DocumentSummary
	for cursor.Next(ctx) {
		var s DocumentSummary
		if err := cursor.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cursor.Err()
}

// HistoryByID filters detail records on the top-level id field.
// Ordering is left to the caller.
func (r *MongoRepo) HistoryByID(ctx context.Context, id string) ([]AnalysisResult, error) {
	cursor, err := r.Stores.Analyses.Find(ctx, bson.M{"id": id})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []AnalysisResult
	for cursor.Next(ctx) {
		result, err := decodeResult(cursor.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, cursor.Err()
}

// Latest returns the most recent detail record, or ErrNotFound when
// the collection is empty.
func (r *MongoRepo) Latest(ctx context.Context) (*AnalysisResult, error) {
	raw, err := r.Stores.Analyses.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	result, err := decodeResult(raw)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// toBSON converts through JSON so the wire field names stay the single
// source of truth, including the open extension fields.
func toBSON(result AnalysisResult) (bson.M, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.UnmarshalExtJSON(payload, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeResult(raw bson.Raw) (AnalysisResult, error) {
	payload, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return AnalysisResult{}, err
	}
	var result AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

func setNonEmpty(set bson.M, key, value string) {
	if value != "" {
		set[key] = value
	}
}

var _ Repo = (*MongoRepo)(nil)
