package model

import (
	"fmt"
	"time"
)

// DismissalKind 出局方式（封闭枚举）
type DismissalKind string

const (
	KindBowled            DismissalKind = "bowled"
	KindCaught            DismissalKind = "caught"
	KindCaughtAndBowled   DismissalKind = "caught and bowled"
	KindLBW               DismissalKind = "lbw"
	KindStumped           DismissalKind = "stumped"
	KindRunOut            DismissalKind = "run out"
	KindHitWicket         DismissalKind = "hit wicket"
	KindObstructingField  DismissalKind = "obstructing the field"
	KindHitBallTwice      DismissalKind = "hit the ball twice"
	KindHandledBall       DismissalKind = "handled the ball"
	KindTimedOut          DismissalKind = "timed out"
	KindRetiredHurt       DismissalKind = "retired hurt"
	KindRetiredOut        DismissalKind = "retired out"
	KindRetiredNotOut     DismissalKind = "retired not out"
)

// SubstituteFielder 替补外野手不在名册中，统一记为该值
const SubstituteFielder = "substitute"

var dismissalKinds = map[DismissalKind]struct{}{
	KindBowled: {}, KindCaught: {}, KindCaughtAndBowled: {}, KindLBW: {}, KindStumped: {},
	KindRunOut: {}, KindHitWicket: {}, KindObstructingField: {}, KindHitBallTwice: {},
	KindHandledBall: {}, KindTimedOut: {}, KindRetiredHurt: {}, KindRetiredOut: {}, KindRetiredNotOut: {},
}

// Valid 是否属于枚举
func (k DismissalKind) Valid() bool {
	_, ok := dismissalKinds[k]
	return ok
}

// IsRetirement 两种"退场"不计为完成的出局
func (k DismissalKind) IsRetirement() bool {
	return k == KindRetiredHurt || k == KindRetiredNotOut
}

// CreditsBowler 计入投手的出局方式
func (k DismissalKind) CreditsBowler() bool {
	switch k {
	case KindBowled, KindCaught, KindCaughtAndBowled, KindLBW, KindStumped, KindHitWicket:
		return true
	}
	return false
}

// FielderSlots 该出局方式允许的外野手记录位数
func (k DismissalKind) FielderSlots() int {
	switch k {
	case KindRunOut:
		return 3
	case KindCaught, KindCaughtAndBowled, KindStumped:
		return 1
	}
	return 0
}

// DeliveryKey 投球的自然主键
type DeliveryKey struct {
	MatchID string
	Innings int
	Over    int
	Ball    int
}

func (k DeliveryKey) String() string {
	return fmt.Sprintf("%s/%d/%d.%d", k.MatchID, k.Innings, k.Over, k.Ball)
}

// Extras 额外得分分项
type Extras struct {
	Byes    int
	LegByes int
	NoBalls int
	Penalty int
	Wides   int
}

// Sum 分项合计
func (e Extras) Sum() int {
	return e.Byes + e.LegByes + e.NoBalls + e.Penalty + e.Wides
}

// DeliveryRecord 事件源解析后的原始投球记录（尚未校验）
type DeliveryRecord struct {
	DeliveryKey
	SuperOver bool

	BatterID     string
	BowlerID     string
	NonStrikerID string

	RunsBatter  int
	RunsExtras  int
	RunsTotal   int
	NonBoundary *bool // 仅 4/6 分时允许出现
	Extras      Extras

	HasWicket   bool
	PlayerOutID string
	HowOut      string
	Fielder1ID  string
	Fielder2ID  string
	Fielder3ID  string

	HasSecondWicket bool
	PlayerOut2ID    string
	HowOut2         string

	HasReview      bool
	ReviewByTeamID string
	UmpireDecision string
	ReviewUmpireID string
	ReviewResult   string
	ReviewBatterID string
	UmpiresCall    *bool
}

// Wicket 第一出局
type Wicket struct {
	PlayerOutID string
	Kind        DismissalKind
	Fielders    []string // 按位次，最多 3 个
}

// SecondWicket 同一球上的第二出局（罕见）
type SecondWicket struct {
	PlayerOutID string
	Kind        DismissalKind
}

// Review 裁判复审
type Review struct {
	ByTeamID       string
	UmpireDecision string
	UmpireID       string
	Result         string
	BatterID       string
	UmpiresCall    bool
}

// Delivery 校验通过的投球
type Delivery struct {
	DeliveryKey
	SuperOver bool

	BatterID     string
	BowlerID     string
	NonStrikerID string

	RunsBatter  int
	RunsExtras  int
	RunsTotal   int
	NonBoundary bool
	Extras      Extras

	Wicket       *Wicket
	SecondWicket *SecondWicket
	Review       *Review
}

// IsLegal 宽球和无效球不计合法球
func (d *Delivery) IsLegal() bool {
	return d.Extras.Wides == 0 && d.Extras.NoBalls == 0
}

// Dismissals 本球所有出局
func (d *Delivery) Dismissals() []SecondWicket {
	var out []SecondWicket
	if d.Wicket != nil {
		out = append(out, SecondWicket{PlayerOutID: d.Wicket.PlayerOutID, Kind: d.Wicket.Kind})
	}
	if d.SecondWicket != nil {
		out = append(out, *d.SecondWicket)
	}
	return out
}

// DeliveryRow deliveries 表
type DeliveryRow struct {
	MatchID               string    `gorm:"column:match_id;primaryKey;type:varchar(64)"`
	Innings               int       `gorm:"column:innings;primaryKey"`
	Overs                 int       `gorm:"column:overs;primaryKey"`
	Balls                 int       `gorm:"column:balls;primaryKey"`
	SuperOver             bool      `gorm:"column:super_over;default:false"`
	BatterID              string    `gorm:"column:batter_id;type:varchar(32);not null;index"`
	BowlerID              string    `gorm:"column:bowler_id;type:varchar(32);not null;index"`
	NonStrikerID          string    `gorm:"column:non_striker_id;type:varchar(32);not null;index"`
	RunsBatter            int       `gorm:"column:runs_batter;not null"`
	RunsExtras            int       `gorm:"column:runs_extras;not null"`
	RunsTotal             int       `gorm:"column:runs_total;not null"`
	RunsBatterNonBoundary *bool     `gorm:"column:runs_batter_non_boundary"`
	Wickets               bool      `gorm:"column:wickets;default:false"`
	PlayerOutID           *string   `gorm:"column:player_out_id;type:varchar(32)"`
	HowOut                *string   `gorm:"column:how_out;type:varchar(32)"`
	Fielder1ID            *string   `gorm:"column:fielder1_id;type:varchar(32)"`
	Fielder2ID            *string   `gorm:"column:fielder2_id;type:varchar(32)"`
	Fielder3ID            *string   `gorm:"column:fielder3_id;type:varchar(32)"`
	Wickets2              bool      `gorm:"column:wickets2;default:false"`
	PlayerOut2ID          *string   `gorm:"column:player_out2_id;type:varchar(32)"`
	HowOut2               *string   `gorm:"column:how_out2;type:varchar(32)"`
	ExtrasByes            int       `gorm:"column:extras_byes;default:0"`
	ExtrasLegByes         int       `gorm:"column:extras_legbyes;default:0"`
	ExtrasNoBalls         int       `gorm:"column:extras_noballs;default:0"`
	ExtrasPenalty         int       `gorm:"column:extras_penalty;default:0"`
	ExtrasWides           int       `gorm:"column:extras_wides;default:0"`
	Review                bool      `gorm:"column:review;default:false"`
	UmpDecision           *string   `gorm:"column:ump_decision;type:varchar(16)"`
	ReviewByID            *string   `gorm:"column:review_by_id;type:varchar(32)"`
	ReviewUmpID           *string   `gorm:"column:review_ump_id;type:varchar(32)"`
	ReviewBatterID        *string   `gorm:"column:review_batter_id;type:varchar(32)"`
	ReviewResult          *string   `gorm:"column:review_result;type:varchar(16)"`
	UmpiresCall           *bool     `gorm:"column:umpires_call"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`

	Match *Match `gorm:"foreignKey:MatchID;references:MatchID" json:"-"`
}

func (DeliveryRow) TableName() string { return "deliveries" }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToRow 转为表行
func (d *Delivery) ToRow() DeliveryRow {
	row := DeliveryRow{
		MatchID:       d.MatchID,
		Innings:       d.Innings,
		Overs:         d.Over,
		Balls:         d.Ball,
		SuperOver:     d.SuperOver,
		BatterID:      d.BatterID,
		BowlerID:      d.BowlerID,
		NonStrikerID:  d.NonStrikerID,
		RunsBatter:    d.RunsBatter,
		RunsExtras:    d.RunsExtras,
		RunsTotal:     d.RunsTotal,
		ExtrasByes:    d.Extras.Byes,
		ExtrasLegByes: d.Extras.LegByes,
		ExtrasNoBalls: d.Extras.NoBalls,
		ExtrasPenalty: d.Extras.Penalty,
		ExtrasWides:   d.Extras.Wides,
	}
	if d.RunsBatter == 4 || d.RunsBatter == 6 {
		nb := d.NonBoundary
		row.RunsBatterNonBoundary = &nb
	}
	if w := d.Wicket; w != nil {
		row.Wickets = true
		row.PlayerOutID = strPtr(w.PlayerOutID)
		row.HowOut = strPtr(string(w.Kind))
		slots := []**string{&row.Fielder1ID, &row.Fielder2ID, &row.Fielder3ID}
		for i, f := range w.Fielders {
			if i >= len(slots) {
				break
			}
			*slots[i] = strPtr(f)
		}
	}
	if w := d.SecondWicket; w != nil {
		row.Wickets2 = true
		row.PlayerOut2ID = strPtr(w.PlayerOutID)
		row.HowOut2 = strPtr(string(w.Kind))
	}
	if r := d.Review; r != nil {
		row.Review = true
		row.ReviewByID = strPtr(r.ByTeamID)
		row.UmpDecision = strPtr(r.UmpireDecision)
		row.ReviewUmpID = strPtr(r.UmpireID)
		row.ReviewResult = strPtr(r.Result)
		row.ReviewBatterID = strPtr(r.BatterID)
		uc := r.UmpiresCall
		row.UmpiresCall = &uc
	}
	return row
}

// ToDelivery 表行还原为投球（读取路径，写入前已校验）
func (r *DeliveryRow) ToDelivery() Delivery {
	d := Delivery{
		DeliveryKey:  DeliveryKey{MatchID: r.MatchID, Innings: r.Innings, Over: r.Overs, Ball: r.Balls},
		SuperOver:    r.SuperOver,
		BatterID:     r.BatterID,
		BowlerID:     r.BowlerID,
		NonStrikerID: r.NonStrikerID,
		RunsBatter:   r.RunsBatter,
		RunsExtras:   r.RunsExtras,
		RunsTotal:    r.RunsTotal,
		NonBoundary:  r.RunsBatterNonBoundary != nil && *r.RunsBatterNonBoundary,
		Extras: Extras{
			Byes:    r.ExtrasByes,
			LegByes: r.ExtrasLegByes,
			NoBalls: r.ExtrasNoBalls,
			Penalty: r.ExtrasPenalty,
			Wides:   r.ExtrasWides,
		},
	}
	if r.Wickets {
		w := &Wicket{PlayerOutID: strVal(r.PlayerOutID), Kind: DismissalKind(strVal(r.HowOut))}
		for _, f := range []*string{r.Fielder1ID, r.Fielder2ID, r.Fielder3ID} {
			if f == nil {
				break
			}
			w.Fielders = append(w.Fielders, *f)
		}
		d.Wicket = w
	}
	if r.Wickets2 {
		d.SecondWicket = &SecondWicket{PlayerOutID: strVal(r.PlayerOut2ID), Kind: DismissalKind(strVal(r.HowOut2))}
	}
	if r.Review {
		d.Review = &Review{
			ByTeamID:       strVal(r.ReviewByID),
			UmpireDecision: strVal(r.UmpDecision),
			UmpireID:       strVal(r.ReviewUmpID),
			Result:         strVal(r.ReviewResult),
			BatterID:       strVal(r.ReviewBatterID),
			UmpiresCall:    r.UmpiresCall != nil && *r.UmpiresCall,
		}
	}
	return d
}
