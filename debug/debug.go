package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Eq    bool
	Save  bool
	Load  bool
	Index bool
}

var d *debug

func init() {
	d = &debug{}
	d.Eq = boolEnv("STRAND_DEBUG_EQ")
	d.Save = boolEnv("STRAND_DEBUG_SAVE")
	d.Load = boolEnv("STRAND_DEBUG_LOAD")
	d.Index = boolEnv("STRAND_DEBUG_INDEX")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Eq() bool {
	return d.Eq
}
func Save() bool {
	return d.Save
}
func Load() bool {
	return d.Load
}
func Index() bool {
	return d.Index
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
