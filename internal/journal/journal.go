// Package journal narrates a run for humans. Every line goes to the console and to an
// in-memory copy that can be sent as a notification body.
package journal

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/GlebRadaev/coinreport/internal/domain"
	"github.com/GlebRadaev/coinreport/pkg/coins"
)

type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
	Coin
	Cash
)

var markers = map[Kind]string{
	Info:    "[ℹ️]",
	Success: "[✅]",
	Warning: "[⚠️]",
	Error:   "[❌]",
	Coin:    "[🪙]",
	Cash:    "[💰]",
}

const (
	accountSeparator = 40
	runSeparator     = 50
	// maxDetailLines bounds how many of today's transactions are listed per account.
	maxDetailLines = 10
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type Journal struct {
	log    zerolog.Logger
	mirror *lockedBuffer
}

func New(w io.Writer) *Journal {
	mirror := &lockedBuffer{}
	out := zerolog.ConsoleWriter{
		Out:        io.MultiWriter(w, mirror),
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
	}
	return &Journal{
		log:    zerolog.New(out),
		mirror: mirror,
	}
}

// String returns everything written so far.
func (j *Journal) String() string {
	return j.mirror.String()
}

func (j *Journal) Log(kind Kind, prefix, text string) {
	marker, ok := markers[kind]
	if !ok {
		marker = markers[Info]
	}
	var e *zerolog.Event
	switch kind {
	case Warning:
		e = j.log.Warn()
	case Error:
		e = j.log.Error()
	default:
		e = j.log.Info()
	}
	e.Msg(marker + " " + prefix + " " + text)
}

func (j *Journal) Line(text string) {
	j.log.Log().Msg(text)
}

func (j *Journal) Separator(n int) {
	j.Line(strings.Repeat("-", n))
}

func (j *Journal) Started(at time.Time, accounts int) {
	j.Line("")
	j.Separator(runSeparator)
	j.Log(Info, "【信息】", "快手当日金币收益记录启动 - "+at.Format("2006-01-02 15:04:05"))
	j.Separator(runSeparator)
	if accounts == 1 {
		j.Log(Warning, "【警告】", "仅检测到1个有效Cookie，如需多账号请用&分隔配置")
	} else {
		j.Log(Info, "【信息】", fmt.Sprintf("检测到%d个有效Cookie", accounts))
	}
}

// Account narrates one aggregated account.
func (j *Journal) Account(r domain.AccountResult) {
	if r.Status == domain.StatusFailed {
		j.Log(Error, "【错误】", fmt.Sprintf("%s处理失败：用户信息获取异常：%v", r.Label(), r.Err))
		return
	}

	snap := r.Snapshot
	j.Line("")
	j.Separator(accountSeparator)
	j.Log(Cash, "【用户】", r.Label()+" - "+snap.Nickname)
	j.Separator(accountSeparator)

	j.Log(Info, "【信息】", "基础收益信息")
	j.Log(Cash, "【现金】", "总现金："+coins.Yuan(snap.TotalCashYuan)+"元")
	j.Log(Coin, "【金币】", fmt.Sprintf("总金币：%d", snap.TotalCoins))
	j.Log(Coin, "【金币】", "金币换算现金："+coins.ToCash(snap.TotalCoins)+"元 (10000金币=1元)")

	if r.Status == domain.StatusPartial {
		j.Log(Error, "【错误】", fmt.Sprintf("%s处理异常：%v", r.Label(), r.Err))
	} else {
		j.Log(Success, "【成功】", "累计收益："+coins.Yuan(snap.AccumulatedIncomeYuan)+"元")
		j.Log(Coin, "【金币】", fmt.Sprintf("今日收益：%d金币 (%s元)", r.TodayEarnedCoins, coins.ToCash(r.TodayEarnedCoins)))
		j.transactions(r.TodayTransactions)
	}

	j.Line("")
	j.Separator(accountSeparator)
}

func (j *Journal) transactions(txs []domain.Transaction) {
	if len(txs) == 0 {
		return
	}
	j.Log(Info, "【信息】", fmt.Sprintf("今日金币明细（共%d条）", len(txs)))
	for i, tx := range txs {
		if i == maxDetailLines {
			j.Line(fmt.Sprintf("   └─ 还有%d条明细，已省略", len(txs)-maxDetailLines))
			return
		}
		sign := ""
		if tx.Amount > 0 {
			sign = "+"
		}
		j.Line(fmt.Sprintf("   ├─ %d. %s：%s%d金币", i+1, tx.EventType, sign, tx.Amount))
	}
}

func (j *Journal) Finished(processed int) {
	j.Line("")
	j.Separator(runSeparator)
	j.Log(Success, "【成功】", fmt.Sprintf("当日金币收益记录执行完毕（共处理%d个账号）", processed))
	j.Separator(runSeparator)
}

// Failed records an unexpected run failure.
func (j *Journal) Failed(err error) {
	j.Line("")
	j.Separator(runSeparator)
	j.Log(Error, "【错误】", "脚本执行出错："+err.Error())
	j.Separator(runSeparator)
}
