package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Settlement must survive a thundering herd of identical confirmations:
// exactly one wins, every loser sees the conflict, and the payout ledger
// records the split exactly once.
func TestConcurrentConfirmations_SettleExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	slug, token := env.registerAndLogin(t, "grace", "Grace's Gallery", merchantWallet)

	rec := env.do(t, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":  "Original Canvas",
		"price": 40_000_000,
		"splits": []gin.H{
			{"wallet_address": merchantWallet, "percentage": 75},
			{"wallet_address": partnerWallet, "percentage": 25},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := dataOf(t, rec)["id"].(string)

	rec = env.do(t, http.MethodPost, "/api/v1/stores/"+slug+"/sales", "", gin.H{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := dataOf(t, rec)["sale_id"].(string)

	txHash := "0xcontended"
	env.chain.addTransfer(txHash, testTokenContract, merchantWallet, 40_000_000)

	const confirmations = 16
	results := make([]int, confirmations)
	var wg sync.WaitGroup
	for i := 0; i < confirmations; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := env.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/confirm", "", gin.H{
				"tx_hash": txHash,
			})
			results[i] = rec.Code
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, code := range results {
		switch code {
		case http.StatusOK:
			wins++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, wins, "exactly one confirmation settles")
	assert.Equal(t, confirmations-1, conflicts)

	// One settlement, one set of obligations.
	saleUUID, err := uuid.Parse(saleID)
	require.NoError(t, err)
	obligations, err := env.payoutRepo.ListBySale(context.Background(), saleUUID)
	require.NoError(t, err)
	require.Len(t, obligations, 1)
	assert.Equal(t, partnerWallet, obligations[0].RecipientWallet)
	assert.Equal(t, int64(10_000_000), obligations[0].Amount)
}

// Distinct sales under concurrent confirmation settle independently.
func TestConcurrentConfirmations_DistinctSales(t *testing.T) {
	env := newTestEnv(t)
	slug, token := env.registerAndLogin(t, "heidi", "Heidi's Honey", merchantWallet)

	rec := env.do(t, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":  "Jar",
		"price": 5_000_000,
		"splits": []gin.H{
			{"wallet_address": merchantWallet, "percentage": 100},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := dataOf(t, rec)["id"].(string)

	const sales = 8
	saleIDs := make([]string, sales)
	for i := 0; i < sales; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/stores/"+slug+"/sales", "", gin.H{
			"product_id": productID,
			"quantity":   1,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		saleIDs[i] = dataOf(t, rec)["sale_id"].(string)

		txHash := "0xsale" + saleIDs[i]
		env.chain.addTransfer(txHash, testTokenContract, merchantWallet, 5_000_000)
	}

	var wg sync.WaitGroup
	codes := make([]int, sales)
	for i := 0; i < sales; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := env.do(t, http.MethodPost, "/api/v1/sales/"+saleIDs[i]+"/confirm", "", gin.H{
				"tx_hash": "0xsale" + saleIDs[i],
			})
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "sale %d should settle", i)
	}

	// All revenue is visible once the dust settles.
	rec = env.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := dataOf(t, rec)["stats"].(map[string]interface{})
	assert.Equal(t, float64(sales*5_000_000), stats["total_revenue"])
	assert.Equal(t, float64(sales), stats["items_sold"])
}

// A concurrent mix of winners and losers on the same sale with different
// hashes: whichever transfer wins is the one recorded.
func TestConcurrentConfirmations_CompetingHashes(t *testing.T) {
	env := newTestEnv(t)
	slug, token := env.registerAndLogin(t, "ivan", "Ivan's Imports", merchantWallet)

	rec := env.do(t, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":  "Crate",
		"price": 20_000_000,
		"splits": []gin.H{
			{"wallet_address": merchantWallet, "percentage": 100},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := dataOf(t, rec)["id"].(string)

	rec = env.do(t, http.MethodPost, "/api/v1/stores/"+slug+"/sales", "", gin.H{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := dataOf(t, rec)["sale_id"].(string)

	hashes := []string{"0xcand1", "0xcand2", "0xcand3", "0xcand4"}
	for _, h := range hashes {
		env.chain.addTransfer(h, testTokenContract, merchantWallet, 20_000_000)
	}

	var wg sync.WaitGroup
	codes := make([]int, len(hashes))
	for i, h := range hashes {
		wg.Add(1)
		go func(i int, h string) {
			defer wg.Done()
			rec := env.do(t, http.MethodPost, "/api/v1/sales/"+saleID+"/confirm", "", gin.H{
				"tx_hash": h,
			})
			codes[i] = rec.Code
		}(i, h)
	}
	wg.Wait()

	wins := 0
	for _, code := range codes {
		if code == http.StatusOK {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	// The sale carries exactly one of the candidate hashes.
	saleUUID, err := uuid.Parse(saleID)
	require.NoError(t, err)
	sale, err := env.saleRepo.GetByID(context.Background(), saleUUID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.NotNil(t, sale.TxHash)
	assert.Contains(t, hashes, *sale.TxHash)
}
