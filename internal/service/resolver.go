package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"CricBase/internal/interfaces"
	"CricBase/internal/model"
	"CricBase/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UnknownNation 自动创建场馆时无法得知所在国家
const UnknownNation = "Unknown"

// LookupResolver 只查库，不创建
type LookupResolver struct {
	refs repository.ReferenceRepository
}

func NewLookupResolver(refs repository.ReferenceRepository) *LookupResolver {
	return &LookupResolver{refs: refs}
}

func (r *LookupResolver) ResolveTeam(ctx context.Context, q interfaces.TeamQuery) (string, error) {
	t, err := r.refs.FindTeam(ctx, q.Sex, q.Nation)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", interfaces.ErrNotResolved
	}
	return t.TeamID, nil
}

func (r *LookupResolver) ResolveVenue(ctx context.Context, q interfaces.VenueQuery) (string, error) {
	v, err := r.refs.FindVenue(ctx, q.Name, q.City)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", interfaces.ErrNotResolved
	}
	return v.VenueID, nil
}

// AutoResolver 未知球队/场馆直接建档
type AutoResolver struct {
	refs   repository.ReferenceRepository
	logger *logrus.Logger
}

func NewAutoResolver(refs repository.ReferenceRepository, logger *logrus.Logger) *AutoResolver {
	return &AutoResolver{refs: refs, logger: logger}
}

// TeamSlug 国家名转为小写字母数字
func TeamSlug(nation string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(nation) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (r *AutoResolver) ResolveTeam(ctx context.Context, q interfaces.TeamQuery) (string, error) {
	slug := TeamSlug(q.Nation)
	if slug == "" {
		return "", fmt.Errorf("%w: 队名为空", interfaces.ErrNotResolved)
	}
	abbr := strings.ToUpper(slug)
	if len(abbr) > 3 {
		abbr = abbr[:3]
	}
	nation := strings.TrimSpace(q.Nation)
	team := &model.Team{
		TeamID:       slug + q.Sex.Letter() + "T20",
		Format:       "T20",
		FullName:     nation + " " + q.Sex.Suffix(),
		ShortName:    &nation,
		Abbreviation: abbr + "-" + q.Sex.Letter(),
		Sex:          q.Sex,
		Nation:       nation,
	}
	if err := r.refs.CreateTeam(ctx, team); err != nil {
		return "", err
	}
	r.logger.WithFields(logrus.Fields{"team_id": team.TeamID, "full_name": team.FullName}).Info("自动创建球队")
	return team.TeamID, nil
}

func (r *AutoResolver) ResolveVenue(ctx context.Context, q interfaces.VenueQuery) (string, error) {
	if strings.TrimSpace(q.Name) == "" {
		return "", fmt.Errorf("%w: 场馆名为空", interfaces.ErrNotResolved)
	}
	venue := &model.Venue{
		VenueID:    uuid.NewString(),
		VenueName:  q.Name,
		City:       q.City,
		Nation:     UnknownNation,
		NationCode: "UNK",
	}
	alias := &model.VenueAlias{AliasName: q.Name, AliasCity: q.City, AliasNation: UnknownNation}
	if err := r.refs.CreateVenue(ctx, venue, alias); err != nil {
		return "", err
	}
	r.logger.WithFields(logrus.Fields{"venue_id": venue.VenueID, "venue": q.Name, "city": q.City}).Warn("自动创建场馆，所在国家待补")
	return venue.VenueID, nil
}

// ChainResolver 依次尝试，第一个成功的为准
type ChainResolver struct {
	resolvers []interfaces.ReferenceResolver
}

func NewChainResolver(resolvers ...interfaces.ReferenceResolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

func (c *ChainResolver) ResolveTeam(ctx context.Context, q interfaces.TeamQuery) (string, error) {
	var errs []error
	for _, r := range c.resolvers {
		id, err := r.ResolveTeam(ctx, q)
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return "", &interfaces.ReferenceResolutionError{
		Kind: interfaces.RefTeam, Name: q.Nation, Sex: q.Sex, Err: joinOrNotResolved(errs),
	}
}

func (c *ChainResolver) ResolveVenue(ctx context.Context, q interfaces.VenueQuery) (string, error) {
	var errs []error
	for _, r := range c.resolvers {
		id, err := r.ResolveVenue(ctx, q)
		if err == nil && id != "" {
			return id, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return "", &interfaces.ReferenceResolutionError{
		Kind: interfaces.RefVenue, Name: q.Name, City: q.City, Err: joinOrNotResolved(errs),
	}
}

func joinOrNotResolved(errs []error) error {
	if len(errs) == 0 {
		return interfaces.ErrNotResolved
	}
	return errors.Join(errs...)
}

// NewResolver 按配置组装：lookup 只查库；auto 查库失败后自动建档
func NewResolver(mode string, refs repository.ReferenceRepository, logger *logrus.Logger) interfaces.ReferenceResolver {
	lookup := NewLookupResolver(refs)
	if mode == "auto" {
		return NewChainResolver(lookup, NewAutoResolver(refs, logger))
	}
	return NewChainResolver(lookup)
}
