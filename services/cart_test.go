package services

import (
	"testing"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCartItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)
	product := testutil.CreateProduct(t, db, "Áo sơ mi", 450000, 3)

	cart, err := GetOrCreateCart(db, CartOwner{UserID: user.ID})
	require.NoError(t, err)

	item, err := SetCartItem(db, cart, product.ID, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(models.NewMoney(450000)))

	cart, err = GetOrCreateCart(db, CartOwner{UserID: user.ID})
	require.NoError(t, err)
	item, err = SetCartItem(db, cart, product.ID, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	cart, _ = GetOrCreateCart(db, CartOwner{UserID: user.ID})
	assert.Len(t, cart.Items, 1, "same product replaces the line")
	assert.True(t, cart.Subtotal().Equal(models.NewMoney(1350000)))

	_, err = SetCartItem(db, cart, product.ID, nil, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = SetCartItem(db, cart, product.ID, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetCartItem_RejectsHiddenProducts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seller := testutil.CreateUser(t, db, models.RoleSeller)
	pending := testutil.CreateSellerProduct(t, db, seller.ID, 100000, 10, models.ApprovalPending)

	cart, err := GetOrCreateCart(db, CartOwner{GuestID: "guest_abc"})
	require.NoError(t, err)

	_, err = SetCartItem(db, cart, pending.ID, nil, 1)
	assert.ErrorIs(t, err, ErrNotPurchasable)
}

func TestSetCartItem_Variant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	product := testutil.CreateProduct(t, db, "Quần tây", 500000, 10)
	variant := models.ProductVariant{ProductID: product.ID, SKU: "QT-32-BLK", Size: "32", Color: "Black", Stock: 1, PriceAdjustment: models.NewMoney(20000)}
	require.NoError(t, db.Create(&variant).Error)

	cart, err := GetOrCreateCart(db, CartOwner{GuestID: "guest_variant"})
	require.NoError(t, err)

	item, err := SetCartItem(db, cart, product.ID, &variant.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "32", item.Size)
	assert.True(t, item.UnitPrice.Equal(models.NewMoney(520000)))

	_, err = SetCartItem(db, cart, product.ID, &variant.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRemoveCartItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)
	product := testutil.CreateProduct(t, db, "Belt", 200000, 5)
	cart := testutil.CreateCartWithItems(t, db, user.ID, map[*models.Product]int{product: 1})

	require.NoError(t, RemoveCartItem(db, cart, cart.Items[0].ID))
	assert.ErrorIs(t, RemoveCartItem(db, cart, cart.Items[0].ID), ErrItemNotFound)
}

func TestMergeGuestCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)
	shirt := testutil.CreateProduct(t, db, "Shirt", 300000, 4)
	tie := testutil.CreateProduct(t, db, "Tie", 150000, 10)

	testutil.CreateCartWithItems(t, db, user.ID, map[*models.Product]int{shirt: 3})

	guestCart, err := GetOrCreateCart(db, CartOwner{GuestID: "guest_1"})
	require.NoError(t, err)
	_, err = SetCartItem(db, guestCart, shirt.ID, nil, 2)
	require.NoError(t, err)
	guestCart, _ = GetOrCreateCart(db, CartOwner{GuestID: "guest_1"})
	_, err = SetCartItem(db, guestCart, tie.ID, nil, 1)
	require.NoError(t, err)

	merged, err := MergeGuestCart(db, "guest_1", user.ID)
	require.NoError(t, err)
	assert.True(t, merged)

	cart, err := GetOrCreateCart(db, CartOwner{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	quantities := map[uint]int{}
	for _, item := range cart.Items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 4, quantities[shirt.ID], "summed quantity capped at stock")
	assert.Equal(t, 1, quantities[tie.ID])

	var guestCarts int64
	db.Model(&models.Cart{}).Where("guest_id = ?", "guest_1").Count(&guestCarts)
	assert.Zero(t, guestCarts)

	merged, err = MergeGuestCart(db, "guest_1", user.ID)
	require.NoError(t, err)
	assert.False(t, merged, "nothing left to merge")
}
