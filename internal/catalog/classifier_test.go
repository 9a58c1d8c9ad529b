package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Kids School Shoe Black", "Kid's Shoes"},
		{"Kid Sandal Blue", "Kid's Sandal"},
		{"Kids Denim Jean", "Kid's Jeans"},
		{"Kid Tshirt Red", "Kid's Shirt"},
		{"Kids Bag Pack", "Kid's Bags"},
		{"Kid Crocks", "Kid's Footwear"},
		{"Kids Flip Flop", "Kid's Footwear"},
		{"Kid Sweater", "Kid's Wear"},
		{"Mens Formal Shoe", "Men's Shoes"},
		{"Men Slim Jean", "Men's Jeans"},
		{"Mens Check Shirt", "Men's Shirts"},
		{"Men Formal Pant", "Men's Trousers"},
		{"Mens Trouser Grey", "Men's Trousers"},
		{"Men Cargo Olive", "Men's Cargo"},
		{"Mens Lower", "Men's Lower"},
		{"Men Jacket", "Men's Wear"},
		{"Canvas Shoe", "Shoes"},
		{"Lofer Brown", "Lofer Shoes"},
		{"Hitway Runner", "Sports Shoes"},
		{"Abros Trainer", "Sports Shoes"},
		{"Umbrella", "Miscellaneous"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyName(tc.name), "input %q", tc.name)
	}
}

func TestClassifyNameKidWinsOverMen(t *testing.T) {
	// "kid" is checked first, so a name with both keywords lands in kidswear.
	require.Equal(t, "Kid's Shoes", ClassifyName("Kids Men Style Shoe"))
}
