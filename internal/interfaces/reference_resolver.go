package interfaces

import (
	"context"
	"errors"
	"fmt"

	"CricBase/internal/model"
)

// RefKind 参考数据类别
type RefKind string

const (
	RefTeam  RefKind = "team"
	RefVenue RefKind = "venue"
)

// ErrNotResolved 解析器无法给出标识，链式解析会继续尝试下一个
var ErrNotResolved = errors.New("未能解析")

// TeamQuery 未知球队
type TeamQuery struct {
	Sex    model.Sex
	Nation string
}

// VenueQuery 未知场馆
type VenueQuery struct {
	Name string
	City string
}

// ReferenceResolver 未识别的球队/场馆 → 稳定标识。实现可以是查表、自动创建或交互式
type ReferenceResolver interface {
	ResolveTeam(ctx context.Context, q TeamQuery) (string, error)
	ResolveVenue(ctx context.Context, q VenueQuery) (string, error)
}

// ReferenceResolutionError 无法解析的球队或场馆，当前比赛回滚并跳过
type ReferenceResolutionError struct {
	Kind RefKind
	Name string
	City string
	Sex  model.Sex
	Err  error
}

func (e *ReferenceResolutionError) Error() string {
	switch e.Kind {
	case RefVenue:
		return fmt.Sprintf("场馆 %q（城市 %q）无法解析: %v", e.Name, e.City, e.Err)
	default:
		return fmt.Sprintf("球队 %q（%s）无法解析: %v", e.Name, e.Sex, e.Err)
	}
}

func (e *ReferenceResolutionError) Unwrap() error { return e.Err }
