package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JetWong0810/football-betting-system/models"
	"github.com/JetWong0810/football-betting-system/pkg/betparse"
	"github.com/JetWong0810/football-betting-system/pkg/ocr"
)

// Beijing time, the feed's reference timezone.
var cstZone = time.FixedZone("CST", 8*3600)

// saleCutoff carries the on-sale day and whether today's sale window closed.
// Tickets stop selling Monday-Thursday at 22:00, Friday-Sunday at 23:00,
// Beijing time.
type saleCutoff struct {
	Today  string
	Passed bool
}

func getSaleCutoff(now time.Time) saleCutoff {
	now = now.In(cstZone)
	hour := 23
	if wd := now.Weekday(); wd >= time.Monday && wd <= time.Thursday {
		hour = 22
	}
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, cstZone)
	return saleCutoff{Today: now.Format("2006-01-02"), Passed: !now.Before(cutoff)}
}

// deriveSaleDate parses the sale date from the issue number prefix
// (251120 -> 2025-11-20), falling back to the feed's match date.
func deriveSaleDate(matchNumber, matchDate string) string {
	n := strings.TrimSpace(matchNumber)
	if len(n) >= 6 {
		digits := true
		for _, r := range n[:6] {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			year := 2000 + int(n[0]-'0')*10 + int(n[1]-'0')
			return fmt.Sprintf("%04d-%s-%s", year, n[2:4], n[4:6])
		}
	}
	return matchDate
}

func formatMatch(m *models.Match, wdl map[string]models.OddsWinDrawLose, latestIssue string) gin.H {
	var kickoff interface{}
	if m.MatchTimestamp > 0 {
		kickoff = time.Unix(m.MatchTimestamp, 0).UTC().Format("2006-01-02T15:04:05") + "Z"
	}
	return gin.H{
		"matchId":     m.MatchID,
		"matchNumber": m.MatchNumber,
		"matchCode":   m.MatchCode,
		"league":      m.LeagueName,
		"leagueFull":  m.LeagueFullName,
		"kickoff":     kickoff,
		"matchDate":   m.MatchDate,
		"matchTime":   m.MatchTime,
		"homeTeam": gin.H{
			"id":   m.HomeTeamID,
			"name": m.HomeTeamName,
			"rank": m.HomeTeamRank,
		},
		"awayTeam": gin.H{
			"id":   m.AwayTeamID,
			"name": m.AwayTeamName,
			"rank": m.AwayTeamRank,
		},
		"isSingle":       m.IsSingle != 0,
		"isLatestIssue":  latestIssue != "" && m.MatchNumber == latestIssue,
		"status":         m.MatchStatus,
		"notice":         m.Notice,
		"oddsUpdateTime": m.OddsUpdateTime,
		"wdl":            wdl,
	}
}

func latestIssueNumber() string {
	var latest string
	db.Model(&models.Match{}).Select("MAX(match_number)").Scan(&latest)
	return latest
}

func fetchWDLForMatches(matchIDs []string) map[string]map[string]models.OddsWinDrawLose {
	result := map[string]map[string]models.OddsWinDrawLose{}
	if len(matchIDs) == 0 {
		return result
	}
	var rows []models.OddsWinDrawLose
	db.Where("match_id IN ?", matchIDs).Find(&rows)
	for _, row := range rows {
		if result[row.MatchID] == nil {
			result[row.MatchID] = map[string]models.OddsWinDrawLose{}
		}
		result[row.MatchID][row.OddsType] = row
	}
	return result
}

// GET /api/health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sync": syncStatusJSON()})
}

// POST /api/sync. Synchronization runs in the scraper binary, not here.
func syncHandler(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "数据同步功能已转移至其他服务器，此接口不可用"})
}

// GET /api/matches
func listMatchesHandler(c *gin.Context) {
	date := c.Query("date")
	league := c.Query("league")
	page := queryInt(c, "page", 1, 1, 1<<30)
	pageSize := queryInt(c, "page_size", 20, 1, 50)

	q := db.Model(&models.Match{}).
		Where("match_status IS NULL OR match_status NOT IN ?", []string{"finished", "cancelled"})
	if league != "" {
		q = q.Where("league_name = ?", league)
	}
	var matches []models.Match
	q.Order("match_number ASC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&matches)

	cutoff := getSaleCutoff(time.Now())
	filtered := matches[:0]
	for i := range matches {
		saleDate := deriveSaleDate(matches[i].MatchNumber, matches[i].MatchDate)
		if date != "" && saleDate != "" && saleDate != date {
			continue
		}
		if saleDate != "" {
			if saleDate < cutoff.Today {
				continue
			}
			if cutoff.Passed && saleDate == cutoff.Today {
				continue
			}
		}
		filtered = append(filtered, matches[i])
	}

	latestIssue := latestIssueNumber()
	matchIDs := make([]string, 0, len(filtered))
	for i := range filtered {
		matchIDs = append(matchIDs, filtered[i].MatchID)
	}
	wdlMap := fetchWDLForMatches(matchIDs)

	items := make([]gin.H, 0, len(filtered))
	for i := range filtered {
		items = append(items, formatMatch(&filtered[i], wdlMap[filtered[i].MatchID], latestIssue))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    len(items),
		"page":     page,
		"pageSize": pageSize,
	})
}

func getWDLOdds(matchID string) map[string]models.OddsWinDrawLose {
	var rows []models.OddsWinDrawLose
	db.Where("match_id = ?", matchID).Find(&rows)
	out := map[string]models.OddsWinDrawLose{}
	for _, row := range rows {
		out[row.OddsType] = row
	}
	return out
}

// GET /api/matches/:match_id
func getMatchHandler(c *gin.Context) {
	matchID := c.Param("match_id")
	var match models.Match
	if err := db.First(&match, "match_id = ?", matchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "未找到比赛"})
		return
	}
	c.JSON(http.StatusOK, formatMatch(&match, getWDLOdds(matchID), latestIssueNumber()))
}

// GET /api/matches/:match_id/plays
func getMatchPlaysHandler(c *gin.Context) {
	matchID := c.Param("match_id")
	cacheKey := "plays:" + matchID

	var cached json.RawMessage
	if playsCache.Get(c.Request.Context(), cacheKey, &cached) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	var match models.Match
	if err := db.First(&match, "match_id = ?", matchID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "未找到比赛"})
		return
	}

	wdl := getWDLOdds(matchID)
	var crs []models.OddsCorrectScore
	db.Where("match_id = ?", matchID).Find(&crs)
	var ttg []models.OddsTotalGoals
	db.Where("match_id = ?", matchID).Find(&ttg)
	var hafu []models.OddsHalfFullTime
	db.Where("match_id = ?", matchID).Find(&hafu)

	plays := gin.H{
		"had":  oddsOrNil(wdl, models.OddsTypeHAD),
		"hhad": oddsOrNil(wdl, models.OddsTypeHHAD),
		"crs":  crs,
		"ttg":  ttg,
		"hafu": hafu,
	}
	response := gin.H{"match": formatMatch(&match, wdl, latestIssueNumber()), "plays": plays}

	if body, err := json.Marshal(response); err == nil {
		playsCache.Set(c.Request.Context(), cacheKey, json.RawMessage(body))
	}
	c.JSON(http.StatusOK, response)
}

func oddsOrNil(wdl map[string]models.OddsWinDrawLose, oddsType string) interface{} {
	if row, ok := wdl[oddsType]; ok {
		return row
	}
	return nil
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// POST /api/auth/register
func registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	user, err := RegisterUser(req.Username, req.Password, req.Phone, req.Email, req.Nickname)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	token, err := createAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("注册失败：%v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "注册成功",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
		},
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}
	token, err := createAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("登录失败：%v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
			"avatar":   user.Avatar,
			"phone":    user.Phone,
			"email":    user.Email,
		},
	})
}

// GET /api/user/profile
func getProfileHandler(c *gin.Context) {
	var user models.User
	if err := db.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "用户不存在"})
		return
	}
	var lastLogin interface{}
	if user.LastLoginAt != nil {
		lastLogin = user.LastLoginAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"nickname":      user.Nickname,
		"avatar":        user.Avatar,
		"phone":         user.Phone,
		"email":         user.Email,
		"created_at":    user.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": lastLogin,
	})
}

type updateProfileRequest struct {
	Nickname *string `json:"nickname"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
}

// PUT /api/user/profile
func updateProfileHandler(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	updates := map[string]interface{}{}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "更新失败"})
		return
	}
	result := db.Model(&models.User{}).Where("id = ?", currentUserID(c)).Updates(updates)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "更新失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// GET /api/user/config
func getConfigHandler(c *gin.Context) {
	var cfg models.UserConfig
	if err := db.Where("user_id = ?", currentUserID(c)).First(&cfg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "配置不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"starting_capital":      cfg.StartingCapital,
		"fixed_ratio":           cfg.FixedRatio,
		"kelly_factor":          cfg.KellyFactor,
		"stop_loss_limit":       cfg.StopLossLimit,
		"target_monthly_return": cfg.TargetMonthlyReturn,
		"theme":                 cfg.Theme,
	})
}

type updateConfigRequest struct {
	StartingCapital     *float64 `json:"starting_capital"`
	FixedRatio          *float64 `json:"fixed_ratio"`
	KellyFactor         *float64 `json:"kelly_factor"`
	StopLossLimit       *int     `json:"stop_loss_limit"`
	TargetMonthlyReturn *float64 `json:"target_monthly_return"`
	Theme               *string  `json:"theme"`
}

// PUT /api/user/config
func updateConfigHandler(c *gin.Context) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	updates := map[string]interface{}{}
	if req.StartingCapital != nil {
		updates["starting_capital"] = *req.StartingCapital
	}
	if req.FixedRatio != nil {
		updates["fixed_ratio"] = *req.FixedRatio
	}
	if req.KellyFactor != nil {
		updates["kelly_factor"] = *req.KellyFactor
	}
	if req.StopLossLimit != nil {
		updates["stop_loss_limit"] = *req.StopLossLimit
	}
	if req.TargetMonthlyReturn != nil {
		updates["target_monthly_return"] = *req.TargetMonthlyReturn
	}
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "更新失败"})
		return
	}
	result := db.Model(&models.UserConfig{}).Where("user_id = ?", currentUserID(c)).Updates(updates)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "更新失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "配置已更新"})
}

type createBetRequest struct {
	BetData map[string]interface{} `json:"bet_data" binding:"required"`
	BetTime string                 `json:"bet_time" binding:"required"`
	Status  string                 `json:"status"`
	Stake   float64                `json:"stake"`
	Odds    float64                `json:"odds"`
	Result  string                 `json:"result"`
	Profit  *float64               `json:"profit"`
}

// POST /api/bets
func createBetHandler(c *gin.Context) {
	var req createBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	data, err := json.Marshal(req.BetData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	status := req.Status
	if status == "" {
		status = models.BetStatusSaved
	}
	bet := models.BetRecord{
		UserID:  currentUserID(c),
		BetData: string(data),
		BetTime: req.BetTime,
		Status:  status,
		Stake:   req.Stake,
		Odds:    req.Odds,
		Result:  req.Result,
		Profit:  req.Profit,
	}
	if err := db.Create(&bet).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("创建失败：%v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "创建成功", "id": bet.ID})
}

func betJSON(bet *models.BetRecord) gin.H {
	var data interface{}
	if err := json.Unmarshal([]byte(bet.BetData), &data); err != nil {
		data = bet.BetData
	}
	return gin.H{
		"id":         bet.ID,
		"bet_data":   data,
		"bet_time":   bet.BetTime,
		"status":     bet.Status,
		"stake":      bet.Stake,
		"odds":       bet.Odds,
		"result":     bet.Result,
		"profit":     bet.Profit,
		"created_at": bet.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": bet.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// GET /api/bets
func listBetsHandler(c *gin.Context) {
	status := c.Query("status")
	page := queryInt(c, "page", 1, 1, 1<<30)
	pageSize := queryInt(c, "page_size", 100, 1, 1000)

	q := db.Model(&models.BetRecord{}).Where("user_id = ?", currentUserID(c))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var bets []models.BetRecord
	q.Order("id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&bets)

	items := make([]gin.H, 0, len(bets))
	for i := range bets {
		items = append(items, betJSON(&bets[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GET /api/bets/:bet_id
func getBetHandler(c *gin.Context) {
	var bet models.BetRecord
	err := db.Where("id = ? AND user_id = ?", c.Param("bet_id"), currentUserID(c)).First(&bet).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "投注记录不存在"})
		return
	}
	c.JSON(http.StatusOK, betJSON(&bet))
}

type updateBetRequest struct {
	BetData map[string]interface{} `json:"bet_data"`
	BetTime *string                `json:"bet_time"`
	Status  *string                `json:"status"`
	Result  *string                `json:"result"`
	Stake   *float64               `json:"stake"`
	Odds    *float64               `json:"odds"`
	Profit  *float64               `json:"profit"`
}

// PUT /api/bets/:bet_id
func updateBetHandler(c *gin.Context) {
	var req updateBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
		return
	}
	updates := map[string]interface{}{}
	if req.BetData != nil {
		data, err := json.Marshal(req.BetData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "请求参数错误"})
			return
		}
		updates["bet_data"] = string(data)
	}
	if req.BetTime != nil {
		updates["bet_time"] = *req.BetTime
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Result != nil {
		updates["result"] = *req.Result
	}
	if req.Stake != nil {
		updates["stake"] = *req.Stake
	}
	if req.Odds != nil {
		updates["odds"] = *req.Odds
	}
	if req.Profit != nil {
		updates["profit"] = *req.Profit
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "没有要更新的字段"})
		return
	}
	result := db.Model(&models.BetRecord{}).
		Where("id = ? AND user_id = ?", c.Param("bet_id"), currentUserID(c)).
		Updates(updates)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "投注记录不存在或更新失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// DELETE /api/bets/:bet_id
func deleteBetHandler(c *gin.Context) {
	result := db.Where("id = ? AND user_id = ?", c.Param("bet_id"), currentUserID(c)).
		Delete(&models.BetRecord{})
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "投注记录不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

type parseImageRequest struct {
	Image string `json:"image"`
}

// POST /api/ocr/parse accepts either a multipart "file" upload or a JSON body
// with a base64 "image" field, runs OCR plus bet parsing, and returns the
// parse envelope.
func parseSlipHandler(c *gin.Context) {
	var result ocr.Result

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "图片格式错误"})
			return
		}
		data, readErr := io.ReadAll(f)
		_ = f.Close()
		if readErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "图片格式错误"})
			return
		}
		result = recognizer.RecognizeBytes(data)
	} else {
		var req parseImageRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "请上传图片文件或提供base64图片"})
			return
		}
		result = recognizer.RecognizeBase64(req.Image)
	}

	envelope := parser.ParseImageResult(toParserInput(result))
	observeParse(envelope)

	// save=1 stores the parse as a draft bet in one round trip.
	if c.Query("save") == "1" && envelope.Success && envelope.Data != nil {
		if id, err := saveDraftBet(currentUserID(c), envelope); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"success":        envelope.Success,
				"data":           envelope.Data,
				"raw_text":       envelope.RawText,
				"ocr_confidence": envelope.OCRConfidence,
				"bet_id":         id,
			})
			return
		}
	}
	c.JSON(http.StatusOK, envelope)
}

func saveDraftBet(userID uint, envelope betparse.Envelope) (uint, error) {
	data, err := json.Marshal(map[string]interface{}{
		"source":         "ocr",
		"parse":          envelope.Data,
		"raw_text":       envelope.RawText,
		"ocr_confidence": envelope.OCRConfidence,
	})
	if err != nil {
		return 0, err
	}
	bet := models.BetRecord{
		UserID:  userID,
		BetData: string(data),
		BetTime: time.Now().UTC().Format(time.RFC3339),
		Status:  models.BetStatusSaved,
		Stake:   envelope.Data.Stake,
	}
	if len(envelope.Data.Legs) == 1 {
		bet.Odds = envelope.Data.Legs[0].Odds
	}
	if err := db.Create(&bet).Error; err != nil {
		return 0, err
	}
	return bet.ID, nil
}

// toParserInput bridges the recognizer output into the parser input without
// re-marshalling line details.
func toParserInput(r ocr.Result) betparse.OCRResult {
	details := make([]betparse.OCRLine, 0, len(r.Details))
	for _, l := range r.Details {
		details = append(details, betparse.OCRLine{
			Text:       l.Text,
			Confidence: l.Confidence,
			Box:        l.Box,
		})
	}
	return betparse.OCRResult{
		Success:    r.Success,
		Text:       r.Text,
		Details:    details,
		Confidence: r.Confidence,
		Error:      r.Error,
	}
}

func queryInt(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v < min {
		return def
	}
	if v > max {
		return max
	}
	return v
}
