package engine_test

import (
	"context"
	"fmt"

	"github.com/ardnew/eidolon/engine"
	"github.com/ardnew/eidolon/lang"
)

func Example() {
	e := engine.New()
	defer e.Close()

	e.SetLogSink(func(ev engine.Event) {
		fmt.Printf("[%s] %s\n", ev.Level, ev.Message)
	})

	out, err := e.Evaluate(context.Background(),
		"let x = $myVar * 2\ninfo[\"doubled\"]\nx + 5",
		lang.Globals{"myVar": 10})
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = e.Sync(context.Background())

	fmt.Println(out)
	// Output:
	// [info] doubled
	// 25
}

func ExampleTable() {
	var tab engine.Table
	defer tab.Close()

	h := tab.Create()
	out, _ := tab.Evaluate(context.Background(), h, "2 + 2 * 2", nil)
	fmt.Println(out)

	_ = tab.Destroy(h)

	_, err := tab.Evaluate(context.Background(), h, "1", nil)
	fmt.Println(err)
	// Output:
	// 6
	// invalid engine handle
}
