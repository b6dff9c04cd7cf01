package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows how long the current scan took and how many scans
// finished.
type SessionStats interface {
	SetScan(d time.Duration)
	SetCompleted(n int)
}

type sessionStats struct {
	scanLbl  *LabelWidget
	countLbl *LabelWidget
}

// NewSessionStats places the two labels at (row, startCol) and
// (row, startCol+1), inside parent when it is non-nil.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{scanLbl: Label(Width(12)), countLbl: Label(Width(12))}
	for i, lbl := range []*LabelWidget{s.scanLbl, s.countLbl} {
		if parent != nil {
			Grid(lbl, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(lbl, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetScan(0)
	s.SetCompleted(0)
	return s
}

func (s *sessionStats) SetScan(d time.Duration) {
	if s == nil || s.scanLbl == nil {
		return
	}
	s.scanLbl.Configure(Txt("Scan: " + clock(d)))
}

func (s *sessionStats) SetCompleted(n int) {
	if s == nil || s.countLbl == nil {
		return
	}
	s.countLbl.Configure(Txt(fmt.Sprintf("Scanned: %d", n)))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
