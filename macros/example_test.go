package macros_test

import (
	"fmt"

	"github.com/nickwells/fieldmacros.mod/macros"
)

type Banner struct {
	BannerID int
	Title    string
	Footer   string
}

// Example_withoutDirs demonstrates how the macros package might be used
// with macro functions only
func Example_withoutDirs() {
	m, err := macros.NewModel("Banner",
		macros.Fields[*Banner]("Title"),
		macros.Macro("rb_mail-banner_id",
			macros.Sprint(func(b *Banner) any { return b.BannerID })),
	)
	if err != nil {
		fmt.Println("Unexpected error creating the model:", err)
		return
	}

	b := &Banner{BannerID: 42, Title: "Banner [rb_mail-banner_id] shown"}

	show := func() {
		title, err := m.GetString(b, "Title")
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println(title)
	}

	show()
	_ = m.With(func(*macros.Model[*Banner]) error {
		show()
		return nil
	})
	show()
	// Output:
	// Banner [rb_mail-banner_id] shown
	// Banner 42 shown
	// Banner [rb_mail-banner_id] shown
}

// Example_withDirs demonstrates how the macros package might be used with
// macros directories
func Example_withDirs() {
	opts := []macros.OptFunc[Banner]{
		macros.Fields[Banner]("Footer"),
		macros.Dirs[Banner]("testdata/macros1", "testdata/macros2"),
		macros.Suffix[Banner](".txt"),
		macros.FileMacro[Banner]("footer"),
		macros.FileMacro[Banner]("legal"),
	}
	m, err := macros.NewModel("Banner", opts...)
	if err != nil {
		fmt.Println("Unexpected error creating the model:", err)
		return
	}

	if err := m.Activate(); err != nil {
		fmt.Println("Unexpected error activating the model:", err)
		return
	}
	defer m.Deactivate()

	footer, err := m.GetString(
		Banner{Footer: "[footer]. [legal]. [unknown]."}, "Footer")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(footer)

	_, err = macros.NewModel("Banner",
		append(opts, macros.FileMacro[Banner]("XXX"))...)
	fmt.Println("Error:", err)
	// Output:
	// Sent by the mailer. All rights reserved. [unknown].
	// Error: model Banner:6: no macro file for "XXX" in testdata/macros1, testdata/macros2
}
