package fuzztests

import (
	"io/fs"
	"testing"

	"plint/internal/modules"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

// snippets cover the constructs the scanner and the parser treat
// specially.
var snippets = []string{
	"",
	"<?php\n",
	"plain text only\n",
	"<?php\necho \"a{$b['c']}d\";\n",
	"<?php\n$x = <<<EOT\n  line $y\n  EOT;\n",
	"<?php\n/*. int .*/ function f(/*. string .*/ $s, /*. args .*/) /*. throws Exception .*/ { return 1; }\n",
	"<?php\nclass A extends B implements C { const K = 1; private $p = array(); function __construct() { } }\n",
	"<?php\ntry { f(); } catch (A | B $e) { } finally { }\n",
	"<?php\nswitch ($x) { case 1: break; default: continue 2; }\n",
	"<?php\nnamespace N\\M;\nuse A\\B as C;\n$o = new C();\n",
	"<?php\nrequire_once __DIR__ . '/lib.php';\n",
	"<?php\n/*. require_module 'standard'; .*/\n",
	"<?php\n/*. forward int function g(int $a); .*/\n",
	"<?php\n$a = 0x1F + 0b11 + 017 + 1_000 + 1.5e3;\n",
	"<?php\nif ($a):\nendif;\n",
	"<?php\n{ { { { } } } }\n",
	"<?php\nfunction (\n",
	"<?php\n/*. unterminated\n",
	"<?php ?>html<?= $x ?>\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range snippets {
		f.Add([]byte(s))
	}
	addModuleSeeds(f)
}

// addModuleSeeds adds the built-in module prototypes, which use every
// annotation form.
func addModuleSeeds(f *testing.F) {
	stubs := modules.FS()
	for _, name := range modules.Names() {
		data, err := fs.ReadFile(stubs, name+".php")
		if err != nil {
			continue
		}
		f.Add(clampSeed(data))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
