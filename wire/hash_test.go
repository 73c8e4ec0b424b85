package wire

import (
	"strings"
	"testing"
)

func TestNameHash(t *testing.T) {
	cases := []struct {
		name string
		want int32
	}{
		{"SQL_PUBLIC_BLOCKS_3a20a0eb_23bc_4f20_a461_481ef271ca11", -454306776},
		{"SQL_PUBLIC_BLOCKS_c0460810_6cda_4dc3_9198_23853130fa74", -1154517926},
		{"SQL_PUBLIC_BLOCKS_1d77a9c4_7ec7_413b_b21b_a5813f3aeb3d", -2076516619},
	}
	for _, c := range cases {
		got := NameHash(strings.ToLower(c.name))
		if got != c.want {
			t.Errorf("NameHash(lower(%q)) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestBodyHashEmptyIsOne(t *testing.T) {
	if got := BodyHash(nil); got != 1 {
		t.Errorf("BodyHash(nil) = %d, want 1", got)
	}
}

func TestBodyHashMatchesJavaFold(t *testing.T) {
	data := []byte{0x01, 0x02, 0xFF}
	h := int32(1)
	for _, b := range data {
		h = h*31 + int32(int8(b))
	}
	if got := BodyHash(data); got != h {
		t.Errorf("BodyHash(%v) = %d, want %d", data, got, h)
	}
}

func TestSchemaIDDeterministicAndOrderSensitive(t *testing.T) {
	a := SchemaID([]string{"FOO", "BAR"})
	b := SchemaID([]string{"foo", "bar"})
	if a != b {
		t.Errorf("SchemaID should be case-insensitive: %d != %d", a, b)
	}
	c := SchemaID([]string{"BAR", "FOO"})
	if a == c {
		t.Errorf("SchemaID should be order-sensitive, got equal hashes for reordered fields")
	}
}
