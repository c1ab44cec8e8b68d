package main

import (
	"reflect"
	"testing"
)

func TestParseVariantSpec(t *testing.T) {
	tests := []struct {
		raw     string
		want    variantSpec
		wantErr bool
	}{
		{
			raw:  "color=gold,stock=3,image=./gold.jpg,video=./gold.mp4",
			want: variantSpec{Color: "gold", Stock: 3, Image: "./gold.jpg", Video: "./gold.mp4"},
		},
		{
			raw:  "color=rose gold",
			want: variantSpec{Color: "rose gold"},
		},
		{raw: "stock=3", wantErr: true},            // no color
		{raw: "color=gold,stock=x", wantErr: true}, // bad stock
		{raw: "color=gold,weight=5", wantErr: true},
		{raw: "gold", wantErr: true}, // not key=value
	}
	for _, tt := range tests {
		got, err := parseVariantSpec(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseVariantSpec(%q): want error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseVariantSpec(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseVariantSpec(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a, b ,,c "); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("splitList = %v", got)
	}
	if got := splitList("  "); got != nil {
		t.Fatalf("splitList blank = %v, want nil", got)
	}
}
