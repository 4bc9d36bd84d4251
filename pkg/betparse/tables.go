package betparse

// Canonical bet type labels. These are the values stored in bet records and
// consumed by the frontend, so they stay in their native form.
const (
	BetTypeOutcome    = "胜平负"
	BetTypeHandicap   = "让球"
	BetTypeTotalGoals = "大小球"
)

// leagueKeywords is scanned in declared order; earlier entries win when
// keywords overlap (e.g. 英超 before the generic 联赛).
var leagueKeywords = []string{
	// big five European leagues
	"英超", "英甲", "英冠", "英锦赛", "足总杯", "联赛杯",
	"西甲", "西乙", "国王杯",
	"意甲", "意乙", "意杯",
	"德甲", "德乙", "德国杯",
	"法甲", "法乙", "法国杯",
	// European competitions
	"欧冠", "欧联", "欧协联", "欧洲杯", "世界杯",
	// Chinese leagues
	"中超", "中甲", "中乙", "足协杯",
	// other leagues
	"葡超", "荷甲", "比甲", "土超", "俄超",
	"美职", "墨西", "巴甲", "阿甲",
	"日职", "韩K", "澳超",
	// generic fallbacks
	"联赛", "杯赛", "友谊赛", "热身赛",
}

type betTypeEntry struct {
	Type     string
	Keywords []string
}

// betTypeKeywords is scanned in declared order; within an entry the keyword
// order is also the tie-break. First hit anywhere short-circuits.
var betTypeKeywords = []betTypeEntry{
	{BetTypeOutcome, []string{"胜平负", "让胜平负", "胜负平", "让胜负平", "SPF", "三项盘"}},
	{BetTypeHandicap, []string{"让球", "让球盘", "让分", "亚盘", "让分盘", "Handicap"}},
	{BetTypeTotalGoals, []string{"大小球", "总进球", "大小", "Over/Under", "进球数"}},
}

type outcomeEntry struct {
	Label    string
	Keywords []string
}

// outcomeKeywords maps win/draw/lose selections for the outcome market,
// scanned in declared order.
var outcomeKeywords = []outcomeEntry{
	{"主胜", []string{"主胜", "主队胜", "胜", "主", "Home", "Win"}},
	{"平局", []string{"平", "平局", "和", "Draw"}},
	{"主负", []string{"负", "主队负", "主负", "客胜", "客队胜", "Away", "Loss"}},
}
