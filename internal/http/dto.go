package http

import (
	"time"

	"github.com/shopspring/decimal"

	"funding/internal/analysis"
	"funding/internal/core"
	"funding/internal/services"
)

// JSON documents served under /api. Undefined cells encode as null.

type recordDTO struct {
	Date        *string          `json:"date"`
	Startup     *string          `json:"startup"`
	Investors   *string          `json:"investors"`
	Vertical    *string          `json:"vertical"`
	Subvertical *string          `json:"subvertical"`
	City        *string          `json:"city"`
	Round       *string          `json:"round"`
	Amount      *decimal.Decimal `json:"amount"`
}

type overviewDTO struct {
	Source            string             `json:"source"`
	Rows              int                `json:"rows"`
	LoadedAt          time.Time          `json:"loaded_at"`
	TotalFunding      decimal.Decimal    `json:"total_funding"`
	MaxFunding        *decimal.Decimal   `json:"max_funding"`
	AverageFunding    decimal.Decimal    `json:"average_funding"`
	FundedStartups    int                `json:"funded_startups"`
	TrendKind         analysis.TrendKind `json:"trend_kind"`
	Trend             analysis.Trend     `json:"trend"`
	SectorCounts      analysis.Counts    `json:"sector_counts"`
	SectorTotals      analysis.Series    `json:"sector_totals"`
	Rounds            analysis.Counts    `json:"rounds"`
	Cities            analysis.Series    `json:"cities"`
	TopStartups       analysis.Series    `json:"top_startups"`
	Years             []int              `json:"years"`
	Year              int                `json:"year"`
	TopStartupsInYear analysis.Series    `json:"top_startups_in_year"`
	TopInvestors      analysis.Series    `json:"top_investors"`
	Heatmap           analysis.Heatmap   `json:"heatmap"`
}

type startupDTO struct {
	Name         string          `json:"name"`
	City         *string         `json:"city"`
	Vertical     *string         `json:"vertical"`
	Subvertical  *string         `json:"subvertical"`
	TotalFunding decimal.Decimal `json:"total_funding"`
	Rounds       []string        `json:"rounds"`
	Investors    []string        `json:"investors"`
	LatestDate   *string         `json:"latest_date"`
	Recent       []recordDTO     `json:"recent"`
	Similar      analysis.Counts `json:"similar"`
}

type investorDTO struct {
	Name    string               `json:"name"`
	Matches int                  `json:"matches"`
	Recent  []recordDTO          `json:"recent"`
	Biggest analysis.Series      `json:"biggest"`
	Sectors analysis.Series      `json:"sectors"`
	Rounds  analysis.Series      `json:"rounds"`
	Cities  analysis.Series      `json:"cities"`
	ByYear  []analysis.YearPoint `json:"by_year"`
	Similar analysis.Counts      `json:"similar"`
}

type entitiesDTO struct {
	Mode  services.Mode `json:"mode"`
	Names []string      `json:"names"`
}

func textPtr(t core.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.Value
	return &v
}

func datePtr(d core.Date) *string {
	if !d.Valid {
		return nil
	}
	v := d.String()
	return &v
}

func toRecordDTOs(recs []core.FundingRecord) []recordDTO {
	out := make([]recordDTO, len(recs))
	for i, r := range recs {
		out[i] = recordDTO{
			Date:        datePtr(r.Date),
			Startup:     textPtr(r.Startup),
			Investors:   textPtr(r.Investors),
			Vertical:    textPtr(r.Vertical),
			Subvertical: textPtr(r.Subvertical),
			City:        textPtr(r.City),
			Round:       textPtr(r.Round),
		}
		if r.Amount.Valid {
			a := r.Amount.Decimal
			out[i].Amount = &a
		}
	}
	return out
}

func toOverviewDTO(ov services.Overview) overviewDTO {
	dto := overviewDTO{
		Source:            ov.Source,
		Rows:              ov.Rows,
		LoadedAt:          ov.LoadedAt,
		TotalFunding:      ov.TotalFunding,
		AverageFunding:    ov.AverageFunding,
		FundedStartups:    ov.FundedStartups,
		TrendKind:         ov.TrendKind,
		Trend:             ov.Trend,
		SectorCounts:      ov.SectorCounts,
		SectorTotals:      ov.SectorTotals,
		Rounds:            ov.Rounds,
		Cities:            ov.Cities,
		TopStartups:       ov.TopStartups,
		Years:             ov.Years,
		Year:              ov.Year,
		TopStartupsInYear: ov.TopStartupsInYear,
		TopInvestors:      ov.TopInvestors,
		Heatmap:           ov.Heatmap,
	}
	if ov.HasMaxFunding {
		m := ov.MaxFunding
		dto.MaxFunding = &m
	}
	return dto
}

func toStartupDTO(sv services.StartupView) startupDTO {
	d := sv.Details
	return startupDTO{
		Name:         d.Name,
		City:         textPtr(d.City),
		Vertical:     textPtr(d.Vertical),
		Subvertical:  textPtr(d.Subvertical),
		TotalFunding: d.TotalFunding,
		Rounds:       d.Rounds,
		Investors:    d.Investors,
		LatestDate:   datePtr(d.LatestDate),
		Recent:       toRecordDTOs(d.Recent),
		Similar:      sv.Similar,
	}
}

func toInvestorDTO(iv services.InvestorView) investorDTO {
	d := iv.Details
	return investorDTO{
		Name:    d.Name,
		Matches: d.Matches,
		Recent:  toRecordDTOs(d.Recent),
		Biggest: d.Biggest,
		Sectors: d.Sectors,
		Rounds:  d.Rounds,
		Cities:  d.Cities,
		ByYear:  d.ByYear,
		Similar: iv.Similar,
	}
}
