package mapper

import (
	"encoding/json"

	"airdrop-tracker-be/internal/entity"
	"airdrop-tracker-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.ActivityLog) *entity.ActivityLog {
	if a == nil {
		return nil
	}
	details := map[string]interface{}{}
	if len(a.Details) > 0 {
		_ = json.Unmarshal(a.Details, &details)
	}
	return &entity.ActivityLog{
		Id:         a.Id,
		EventType:  a.EventType,
		UserId:     a.UserId,
		Details:    details,
		OccurredAt: a.OccurredAt,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.ActivityLog) (*model.ActivityLog, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a.Details)
	if err != nil {
		return nil, err
	}
	return &model.ActivityLog{
		Id:         a.Id,
		EventType:  a.EventType,
		UserId:     a.UserId,
		Details:    datatypes.JSON(raw),
		OccurredAt: a.OccurredAt,
		CreatedAt:  a.CreatedAt,
	}, nil
}
