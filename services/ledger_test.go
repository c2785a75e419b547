package services

import (
	"sync"
	"testing"

	"prop-broker-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeBuffer_PutOverwritesSameKey(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	buf := NewChangeBuffer()

	require.NoError(buf.Put(7, "prop_phase", "Phase 1"))
	require.NoError(buf.Put(7, "prop_phase", "Phase 2"))

	assert.Equal(1, buf.Len())
	changes := buf.List()
	require.Len(changes, 1)
	assert.Equal("Phase 2", changes[0].Value)
}

func TestChangeBuffer_InsertionOrder(t *testing.T) {
	require := require.New(t)
	buf := NewChangeBuffer()

	require.NoError(buf.Put(1, "prop_phase", "a"))
	require.NoError(buf.Put(2, "purchased_by", "b"))
	require.NoError(buf.Put(1, "cycle_number", 3))
	// Overwriting keeps the original position.
	require.NoError(buf.Put(1, "prop_phase", "c"))

	changes := buf.List()
	require.Len(changes, 3)
	require.Equal(uint(1), changes[0].RecordID)
	require.Equal("prop_phase", changes[0].Field)
	require.Equal("c", changes[0].Value)
	require.Equal("purchased_by", changes[1].Field)
	require.Equal("cycle_number", changes[2].Field)
}

func TestChangeBuffer_RejectsUnknownField(t *testing.T) {
	buf := NewChangeBuffer()
	err := buf.Put(1, "client_name", "new name")
	require.Error(t, err)
	assert.Equal(t, 0, buf.Len())
}

func TestChangeBuffer_FieldBounds(t *testing.T) {
	assert := assert.New(t)
	buf := NewChangeBuffer()

	assert.Error(buf.Put(1, "prop_quota", 0))
	assert.Error(buf.Put(1, "prop_quota", 1000))
	assert.NoError(buf.Put(1, "prop_quota", 999))

	assert.Error(buf.Put(1, "cycle_number", -1))
	assert.NoError(buf.Put(1, "cycle_number", 0))

	assert.Error(buf.Put(1, "prop_withdrawal", -0.01))
	assert.Error(buf.Put(1, "prop_withdrawal", 1000000.0))
	assert.NoError(buf.Put(1, "prop_withdrawal", 999999.99))

	assert.Error(buf.Put(1, "commission_pct", 100.5))
	assert.NoError(buf.Put(1, "commission_pct", 25.0))

	assert.Error(buf.Put(1, "deposit_state", "maybe"))
	assert.NoError(buf.Put(1, "deposit_state", models.DepositStateDeposited))
	assert.NoError(buf.Put(1, "deposit_state", ""))
}

func TestChangeBuffer_DecimalRounding(t *testing.T) {
	require := require.New(t)
	buf := NewChangeBuffer()

	require.NoError(buf.Put(1, "prop_withdrawal", 10.999))
	require.NoError(buf.Put(1, "commission_pct", 25.04))

	changes := buf.List()
	require.Equal(11.0, changes[0].Value)
	require.Equal(25.0, changes[1].Value)
}

func TestChangeBuffer_Clear(t *testing.T) {
	buf := NewChangeBuffer()
	require.NoError(t, buf.Put(1, "prop_phase", "x"))
	buf.Clear()
	assert.Equal(t, 0, buf.Len())
	assert.Empty(t, buf.List())
}

func TestBufferRegistry_SessionIsolation(t *testing.T) {
	assert := assert.New(t)
	reg := NewBufferRegistry()

	a := reg.Get("session-a")
	b := reg.Get("session-b")
	require.NoError(t, a.Put(1, "prop_phase", "x"))

	assert.Equal(1, a.Len())
	assert.Equal(0, b.Len())
	assert.Same(a, reg.Get("session-a"))

	reg.Drop("session-a")
	assert.Equal(0, reg.Get("session-a").Len())
}

func TestChangeBuffer_ConcurrentEdits(t *testing.T) {
	reg := NewBufferRegistry()

	// Simulate parallel in-flight requests hammering one session's buffer.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				buf := reg.Get("same-session")
				require.NoError(t, buf.Put(uint(g*100+i+1), "prop_phase", "Phase 1"))
				buf.List()
				buf.Len()
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 400, reg.Get("same-session").Len())
}

func TestBufferRegistry_Retain(t *testing.T) {
	reg := NewBufferRegistry()
	reg.Get("alive")
	reg.Get("expired-1")
	reg.Get("expired-2")

	dropped := reg.Retain(map[string]bool{"alive": true})
	assert.Equal(t, 2, dropped)
}

func TestSummarize(t *testing.T) {
	assert := assert.New(t)
	clients := []models.PammClient{
		{ClientName: "MANUEL CARINI [4000]", GroupID: 1, PropState: models.PropStateDone,
			DepositAmount: 4000, PropWithdrawal: 500, ProfitWithdrawal: 120, CommissionPct: 25},
		{ClientName: "MARCO ROSSI", GroupID: 1, PropState: models.PropStateNotDone,
			DepositAmount: 2000, CommissionPct: 20},
	}

	s := Summarize(clients)
	assert.Equal(2, s.ClientCount)
	assert.Equal(1, s.DoneCount)
	assert.Equal(0, s.DepositedCount)
	assert.Equal(6000.0, s.TotalDeposits)
	assert.Equal(500.0, s.TotalPropWithdrawals)
	assert.Equal(120.0, s.TotalProfitWithdrawals)
	assert.Equal(22.5, s.MeanCommissionPct)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.ClientCount)
	assert.Equal(t, 0.0, s.MeanCommissionPct)
}

func TestBuildSections_SortsAndPartitions(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	names := map[uint]string{1: "Gruppo Alpha", 2: "Gruppo Beta"}
	clients := []models.PammClient{
		{ID: 1, GroupID: 2, ClientName: "Zeta", CommissionPct: 25},
		{ID: 2, GroupID: 1, ClientName: "Beta", CommissionPct: 30, DepositState: models.DepositStateDeposited},
		{ID: 3, GroupID: 1, ClientName: "Alpha", CommissionPct: 25, PropState: models.PropStateDone},
	}

	sections := BuildSections(clients, names)
	require.Len(sections, 2)

	assert.Equal("Gruppo Alpha", sections[0].GroupName)
	require.Len(sections[0].Rows, 2)
	assert.Equal("Alpha", sections[0].Rows[0].ClientName)
	assert.Equal("Beta", sections[0].Rows[1].ClientName)
	assert.Equal(2, sections[0].Summary.ClientCount)
	assert.Equal(1, sections[0].Summary.DoneCount)
	assert.Equal(1, sections[0].Summary.DepositedCount)

	// Presentation flags are precomputed per row.
	assert.True(sections[0].Rows[0].CommissionStandard)
	assert.False(sections[0].Rows[1].CommissionStandard)
	assert.True(sections[0].Rows[1].Deposited)

	assert.Equal("Gruppo Beta", sections[1].GroupName)
	require.Len(sections[1].Rows, 1)
}

func TestSearchClients(t *testing.T) {
	assert := assert.New(t)
	names := map[uint]string{1: "Gruppo Alpha", 2: "Gruppo Beta"}
	clients := []models.PammClient{
		{ID: 1, GroupID: 1, ClientName: "Manuel Carini"},
		{ID: 2, GroupID: 2, ClientName: "Marco Rossi"},
	}

	assert.Len(SearchClients(clients, names, "CARINI"), 1)
	assert.Len(SearchClients(clients, names, "gruppo"), 2)
	assert.Len(SearchClients(clients, names, "beta"), 1)
	assert.Empty(SearchClients(clients, names, "nobody"))
	// Blank query returns everything untouched.
	assert.Len(SearchClients(clients, names, "  "), 2)
}

func TestSummarize_UnchangedByStatusFlips(t *testing.T) {
	assert := assert.New(t)
	clients := []models.PammClient{
		{GroupID: 1, ClientName: "A", DepositAmount: 1000, PropState: models.PropStateNotDone,
			PropWithdrawal: 300, ProfitWithdrawal: 50, CommissionPct: 25},
		{GroupID: 1, ClientName: "B", DepositAmount: 2000, PropState: models.PropStateNotDone,
			CommissionPct: 25},
	}
	before := Summarize(clients)

	// Status flips move the counters but never the money sums.
	clients[0].PropState = models.PropStateDone
	clients[1].DepositState = models.DepositStateDeposited
	after := Summarize(clients)

	assert.Equal(1, after.DoneCount)
	assert.Equal(1, after.DepositedCount)
	assert.Equal(before.TotalDeposits, after.TotalDeposits)
	assert.Equal(before.TotalPropWithdrawals, after.TotalPropWithdrawals)
	assert.Equal(before.TotalProfitWithdrawals, after.TotalProfitWithdrawals)
	assert.Equal(before.MeanCommissionPct, after.MeanCommissionPct)
}

func TestBatchResultCounts(t *testing.T) {
	r := BatchResult{
		Succeeded: []uint{1, 3},
		Failed:    []BatchFailure{{ID: 2, Reason: "record 2 not found"}},
	}
	assert.Equal(t, 2, r.SuccessCount())
	assert.Equal(t, 1, r.FailureCount())
}
