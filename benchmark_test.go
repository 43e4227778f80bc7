package pathkit

import "testing"

func BenchmarkNew(b *testing.B) {
	addresses := map[string]string{
		"posix":   "/var/data/reports/2026/summary.csv",
		"url":     "s3://bucket/data/2026/summary.csv",
		"memory":  "memory:///scratch/summary.csv",
		"chained": "member.csv::zip://archive.zip::s3://bucket/data.zip",
	}

	for name, addr := range addresses {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := New(addr); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkJoin(b *testing.B) {
	p := MustNew("s3://bucket/base")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Join("a", "b", "c.txt"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEqual(b *testing.B) {
	p := MustNew("s3://bucket/dir/file.csv", WithOptions(Options{"anon": "true"}))
	q := MustNew("s3://bucket/dir/file.csv")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !p.Equal(q) {
			b.Fatal("paths should be equal")
		}
	}
}

func BenchmarkHash(b *testing.B) {
	p := MustNew("s3://bucket/dir/file.csv")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = p.Hash()
	}
}
