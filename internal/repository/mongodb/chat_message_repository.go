package mongodb

import (
	"context"
	"time"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ChatMessagesCollection = "chat_messages"

type chatMessageDocument struct {
	Id         string    `bson:"_id"`
	SenderId   string    `bson:"sender_id"`
	SenderName string    `bson:"sender_name"`
	Content    string    `bson:"content"`
	SentAt     time.Time `bson:"sent_at"`
}

type ChatMessageRepository struct {
	coll   *mongo.Collection
	logger logger.ILogger
}

// NewChatMessageRepository ensures the sent_at index exists. Queries work
// without it, so a failure is only logged.
func NewChatMessageRepository(db *mongo.Database, log logger.ILogger) contract.ChatMessageRepository {
	coll := db.Collection(ChatMessagesCollection)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "sent_at", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("sent_at_idx"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := coll.Indexes().CreateOne(ctx, ix); err != nil {
		log.Warn("MongoChatStore", "Failed to create sent_at index", map[string]interface{}{"collection": ChatMessagesCollection, "error": err.Error()})
	}

	return &ChatMessageRepository{coll: coll, logger: log}
}

func (r *ChatMessageRepository) InsertMessage(ctx context.Context, message *entity.ChatMessage) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	doc := chatMessageDocument{
		Id:         message.Id.String(),
		SenderId:   message.SenderId,
		SenderName: message.SenderName,
		Content:    message.Content,
		SentAt:     message.SentAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *ChatMessageRepository) FindRecentMessages(ctx context.Context, limit int) ([]*entity.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*entity.ChatMessage{}
	for cur.Next(ctx) {
		var doc chatMessageDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(doc.Id)
		if err != nil {
			r.logger.Warn("MongoChatStore", "Skipping message with non-UUID id", map[string]interface{}{"id": doc.Id, "error": err.Error()})
			continue
		}
		out = append(out, &entity.ChatMessage{
			Id:         id,
			SenderId:   doc.SenderId,
			SenderName: doc.SenderName,
			Content:    doc.Content,
			SentAt:     doc.SentAt.UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return lo.Reverse(out), nil
}

func (r *ChatMessageRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
