package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// builtinSeeds cover every annotation kind the generator understands.
var builtinSeeds = []string{
	"",
	"fn f();\n",
	"@safethunk(countedBy(pointer: .param(1), count: \"n\"))\nfn fill(_ p: UnsafeMutablePointer<CInt>, _ n: Int);\n",
	"@safethunk(countedBy(pointer: .param(1), count: \"len * 2\"), nonescaping(pointer: .param(1)))\nfn scan(_ p: UnsafePointer<CChar>, _ len: Int32) -> Bool;\n",
	"@safethunk(sizedBy(pointer: .param(1), size: \"size\"))\nfn hash(_ data: UnsafeRawPointer?, _ size: UInt) -> UInt64;\n",
	"@safethunk(endedBy(start: 1, end: 2))\nfn walk(_ b: UnsafePointer<CInt>, _ e: UnsafePointer<CInt>);\n",
	"@safethunk(countedBy(pointer: .return, count: \"n\"), lifetimeDependence(dependsOn: .param(1), pointer: .return, type: .copy))\nfn view(_ n: Int) -> UnsafePointer<CInt>;\n",
	"@safethunk(nonescaping(pointer: .param(1)), typeMappings: [\"IntSpan\": \"std.span<const CInt>\"])\nfn sum(_ s: IntSpan) -> CInt;\n",
	"extern<Buffer> {\n@safethunk(countedBy(pointer: .param(1), count: \"n\"))\nfn write(_ p: UnsafePointer<UInt8>, _ n: Int);\n}\n",
	"/// doc\n@available(macOS 13, *)\n@safethunk(countedBy(pointer: .param(1), count: \"n\"))\npublic fn f(_ p: UnsafeMutablePointer<CInt>!, _ n: Int);\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.sfi файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".sfi" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
