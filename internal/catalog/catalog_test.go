package catalog

import (
	"testing"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_EmbeddedCatalog(t *testing.T) {
	// when
	c, err := Load()

	// then
	require.NoError(t, err)
	assert.Len(t, c.Products(), 10)
	assert.Len(t, c.Categories(), 7)
	assert.Len(t, c.Banners(), 4)
	assert.Len(t, c.Plans(""), 5)

	milk, err := c.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Cow Milk", milk.Name)
	assert.Equal(t, int64(6500), milk.Price)
	assert.Equal(t, "Milk", milk.Category)
	assert.Equal(t, "1L", milk.DefaultQuantity)
	assert.Equal(t, "10%", milk.Discount)
}

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		wantErr   string
		wantNames []string
	}{
		{
			name: "products are decoded",
			raw: `
products:
  - id: 7
    name: Desi Ghee
    price: 55000
    category: Ghee
  - id: 8
    name: Salted Butter
    price: 5600
    category: Butter
`,
			wantNames: []string{"Desi Ghee", "Salted Butter"},
		},
		{
			name:    "malformed yaml",
			raw:     "products: [",
			wantErr: "error loading catalog",
		},
		{
			name: "duplicate product id",
			raw: `
products:
  - id: 7
  - id: 7
`,
			wantErr: "duplicate product id 7",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			c, err := Parse([]byte(tc.raw))

			// then
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, p := range c.Products() {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.wantNames, names)
		})
	}
}

func Test_New(t *testing.T) {
	testCases := []struct {
		name    string
		data    Data
		wantErr string
	}{
		{
			name: "duplicate categories are collapsed",
			data: Data{Categories: []Category{{ID: "organic", Name: "Organic"}, {ID: "organic", Name: "Organic"}}},
		},
		{
			name:    "duplicate product id",
			data:    Data{Products: []Product{{ID: 1}, {ID: 1}}},
			wantErr: "duplicate product id 1",
		},
		{
			name:    "negative price",
			data:    Data{Products: []Product{{ID: 1, Price: -5}}},
			wantErr: "product 1 has a negative price",
		},
		{
			name:    "duplicate plan id",
			data:    Data{Plans: []SubscriptionPlan{{ID: "daily_1"}, {ID: "daily_1"}}},
			wantErr: `duplicate plan id "daily_1"`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			c, err := New(tc.data)

			// then
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.Categories(), 1)
		})
	}
}

func Test_Catalog_Queries(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	t.Run("unknown product", func(t *testing.T) {
		_, err := c.FindByID(42)
		assert.ErrorIs(t, err, storeerrors.ErrProductNotFound)
	})

	t.Run("category filter", func(t *testing.T) {
		curd := c.ByCategory("Curd")
		require.Len(t, curd, 2)
		assert.Equal(t, 4, curd[0].ID)
		assert.Equal(t, 10, curd[1].ID)
	})

	t.Run("empty category falls back to all products", func(t *testing.T) {
		assert.Len(t, c.ByCategory("Organic"), 10)
	})

	t.Run("search ignores case", func(t *testing.T) {
		found := c.Search("  MILK ")
		ids := make([]int, 0, len(found))
		for _, p := range found {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int{1, 2, 3, 9}, ids)
	})

	t.Run("blank search", func(t *testing.T) {
		assert.Empty(t, c.Search(""))
	})

	t.Run("banner products", func(t *testing.T) {
		products := c.BannerProducts(3)
		require.Len(t, products, 2)
		assert.Equal(t, "Farmstead Butter", products[0].Name)
		assert.Equal(t, "Farm Fresh Brown Eggs", products[1].Name)
		assert.Empty(t, c.BannerProducts(99))
	})

	t.Run("plans by frequency", func(t *testing.T) {
		assert.Len(t, c.Plans(Daily), 3)
		assert.Len(t, c.Plans(Weekly), 2)
		assert.Empty(t, c.Plans(Monthly))
	})

	t.Run("find plan", func(t *testing.T) {
		plan, err := c.FindPlan("weekly_1")
		require.NoError(t, err)
		assert.True(t, plan.BestValue)
		assert.Len(t, plan.Products, 3)

		_, err = c.FindPlan("yearly")
		assert.ErrorIs(t, err, storeerrors.ErrPlanNotFound)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		products := c.Products()
		products[0].Name = "changed"
		again, _ := c.FindByID(1)
		assert.Equal(t, "Fresh Cow Milk", again.Name)
		assert.Equal(t, "Fresh Cow Milk", c.Products()[0].Name)
	})
}
