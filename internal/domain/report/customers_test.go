package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestQuintiles(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, quintiles([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, []int{5, 1, 3, 2, 4}, quintiles([]float64{50, 10, 30, 20, 40}))
	assert.Equal(t, []int{5}, quintiles([]float64{7}), "只有一个顾客时记满分")

	tied := quintiles([]float64{1, 1, 1, 1, 9})
	assert.Equal(t, []int{1, 1, 1, 1, 5}, tied, "并列取并列组的最低名次")
}

func TestRFMSegment(t *testing.T) {
	assert.Equal(t, SegmentChampions, RFMSegment(5, 4, 4))
	assert.Equal(t, SegmentLoyal, RFMSegment(3, 3, 1))
	assert.Equal(t, SegmentPotential, RFMSegment(5, 1, 1))
	assert.Equal(t, SegmentAtRisk, RFMSegment(1, 4, 2))
	assert.Equal(t, SegmentLost, RFMSegment(2, 1, 2))
}

func TestComputeRFM(t *testing.T) {
	now := day0
	stats := []CustomerStat{
		{CustomerID: 1, Name: "A", Status: "ACTIVE", OrderCount: 10, Revenue: decimal.NewFromInt(50000), LastOrderDate: ptrTime(now.AddDate(0, 0, -1))},
		{CustomerID: 2, Name: "B", Status: "ACTIVE", OrderCount: 1, Revenue: decimal.NewFromInt(1000), LastOrderDate: ptrTime(now.AddDate(0, 0, -200))},
		{CustomerID: 3, Name: "C", Status: "ACTIVE"},
		{CustomerID: 4, Name: "D", Status: "DELETED", OrderCount: 3, Revenue: decimal.NewFromInt(3000), LastOrderDate: ptrTime(now)},
		{CustomerID: 5, Name: "E", Status: "ACTIVE", OrderCount: 4, Revenue: decimal.NewFromInt(8000), LastOrderDate: ptrTime(now.AddDate(0, 0, -30))},
	}

	scores := ComputeRFM(stats, now)
	require.Len(t, scores, 3, "无订单和已删除的顾客不参与")
	assert.Equal(t, uint(1), scores[0].CustomerID)
	assert.Equal(t, 1, scores[0].Recency)
	assert.Equal(t, 5, scores[0].RScore)
	assert.Equal(t, SegmentChampions, scores[0].Segment)

	assert.Equal(t, uint(5), scores[1].CustomerID)
	assert.Equal(t, 4, scores[1].FScore)

	assert.Equal(t, uint(2), scores[2].CustomerID)
	assert.Equal(t, 200, scores[2].Recency)
	assert.Equal(t, 2, scores[2].RScore)
	assert.Equal(t, SegmentLost, scores[2].Segment)

	summary := SummarizeRFM(scores)
	require.Len(t, summary, len(RFMSegments))
	assert.Equal(t, 2, summary[0].Count)
	assert.InDelta(t, 66.67, summary[0].Percentage, 1e-9)
	assert.Equal(t, 1, summary[4].Count)
}

func TestBuildCustomerAnalytics(t *testing.T) {
	now := day0
	id1 := uint(1)
	stats := []CustomerStat{
		{CustomerID: 1, CustomerType: "INDIVIDUAL", Status: "ACTIVE", CreatedAt: now.AddDate(0, 0, -3), OrderCount: 1, Revenue: decimal.NewFromInt(3000), LastOrderDate: ptrTime(now)},
		{CustomerID: 2, CustomerType: "CORPORATE", Status: "INACTIVE", CreatedAt: now.AddDate(-1, 0, 0)},
		{CustomerID: 3, CustomerType: "STUDENT", Status: "ACTIVE", CreatedAt: now.AddDate(0, -2, 0)},
		{CustomerID: 4, CustomerType: "STUDENT", Status: "DELETED", CreatedAt: now},
	}
	lines := []SaleLine{line(1, 1, now, channelOnline, "GO", 1, 3000)}
	lines[0].CustomerID = &id1

	ca := BuildCustomerAnalytics(stats, lines, now)
	assert.Equal(t, 3, ca.TotalCustomers)
	assert.Equal(t, 2, ca.ActiveCustomers)
	assert.Equal(t, 1, ca.NewCustomers)

	require.Len(t, ca.Segments, 3)
	assert.Equal(t, "INDIVIDUAL", ca.Segments[0].Segment)
	assert.Equal(t, "3000", ca.Segments[0].Revenue.String())
	assert.InDelta(t, 33.33, ca.Segments[0].Percentage, 1e-9)

	require.Len(t, ca.Trends, 6)
	last := ca.Trends[5]
	assert.Equal(t, "2026-03", last.Month)
	assert.Equal(t, 1, last.NewCustomers)
	assert.Equal(t, 1, last.ActiveBuyers)
	assert.Equal(t, "2026-01", ca.Trends[3].Month)
	assert.Equal(t, 1, ca.Trends[3].NewCustomers)
}
