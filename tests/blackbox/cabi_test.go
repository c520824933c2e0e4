package blackbox

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// driverSource exercises the exported C ABI the way an application linked
// against the vendor library would. Each line is key=value for the test.
const driverSource = `#include <stdio.h>
#include <string.h>
#include "libneuronrt.h"

int main(int argc, char **argv) {
    RuntimeConfig cfg = {0, 0};
    int rc;
    NeuronRuntime rt = NULL;
    printf("create=%d\n", NeuronRuntime_create(&cfg, &rt));
    printf("create_null_out=%d\n", NeuronRuntime_create(&cfg, NULL));
    printf("handle_set=%d\n", rt != NULL);

    printf("load=%d\n", NeuronRuntime_loadNetworkFromFile(rt, argv[1]));
    printf("load_missing=%d\n", NeuronRuntime_loadNetworkFromFile(rt, "/nowhere/missing.dla"));
    printf("load_null_path=%d\n", NeuronRuntime_loadNetworkFromFile(rt, NULL));
    printf("load_empty_path=%d\n", NeuronRuntime_loadNetworkFromFile(rt, ""));

    uint32_t count = 99;
    printf("count_null_out=%d\n", NeuronRuntime_getInputCount(rt, NULL));
    rc = NeuronRuntime_getInputCount(rt, &count);
    printf("count=%d/%u\n", rc, count);

    size_t size = 0;
    rc = NeuronRuntime_getInputSize(rt, 0, &size);
    printf("in_size=%d/%zu\n", rc, size);

    unsigned char in[16] = {1};
    unsigned char out[8];
    memset(out, 0xab, sizeof out);
    printf("set_input=%d\n", NeuronRuntime_setInput(rt, 0, in, sizeof in, 0));
    printf("set_output=%d\n", NeuronRuntime_setOutput(rt, 0, out, sizeof out, 0));
    printf("set_output_null=%d\n", NeuronRuntime_setOutput(rt, 0, NULL, 8, 0));

    NeuronTensorInfo info;
    memset(&info, 0xff, sizeof info);
    rc = NeuronRuntime_getOutputInfo(rt, 0, &info);
    printf("info=%d/%zu/%u/%u\n", rc, info.sizeBytes, info.dimensionCount, info.type);
    printf("info_null_out=%d\n", NeuronRuntime_getOutputInfo(rt, 0, NULL));

    printf("inference=%d\n", NeuronRuntime_inference(rt));
    int zero = 1;
    for (size_t i = 0; i < sizeof out; i++) {
        if (out[i] != 0) zero = 0;
    }
    printf("outputs_zeroed=%d\n", zero);

    QoSOptions qos = {1, 2, 3, 4, (void *)0x1234, 9};
    printf("qos_set=%d\n", NeuronRuntime_setQoSOption(rt, &qos));
    rc = NeuronRuntime_getProfiledQoSData(rt, &qos);
    printf("qos_get=%d/%d/%u/%u\n", rc, qos.profiledQoSData == NULL, qos.profiledQoSDataSize, qos.priority);
    printf("qos_null_handle=%d\n", NeuronRuntime_setQoSOption(NULL, &qos));

    printf("release=%d\n", NeuronRuntime_release(rt));
    printf("release_again=%d\n", NeuronRuntime_release(rt));
    printf("null_inference=%d\n", NeuronRuntime_inference(NULL));
    printf("null_release=%d\n", NeuronRuntime_release(NULL));
    return 0;
}
`

// buildDriver builds the shared library and links driverSource against it.
func buildDriver(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the shared library; skipped in -short mode")
	}
	if runtime.GOOS != "linux" {
		t.Skip("c-shared driver test runs on linux")
	}
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("no C compiler on PATH")
	}
	root := projectRootFromThisFile(t)
	dir := t.TempDir()

	build := exec.Command("go", "build", "-buildmode=c-shared", "-o", filepath.Join(dir, "libneuronrt.so"), "./cmd/libneuronrt")
	build.Dir = root
	build.Env = append(build.Environ(), "CGO_ENABLED=1")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build c-shared failed: %v\n%s", err, string(out))
	}

	src := filepath.Join(dir, "driver.c")
	writeFile(t, src, driverSource)
	bin := filepath.Join(dir, "driver")
	link := exec.Command(cc, "-o", bin, src,
		"-I", dir, "-I", filepath.Join(root, "cmd", "libneuronrt"),
		"-L", dir, "-lneuronrt", "-Wl,-rpath,"+dir)
	if out, err := link.CombinedOutput(); err != nil {
		t.Fatalf("cc failed: %v\n%s", err, string(out))
	}
	return bin
}

func parseDriverOutput(out string) map[string]string {
	res := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok {
			res[k] = v
		}
	}
	return res
}

func TestCABI_StubScenario(t *testing.T) {
	bin := buildDriver(t)
	work := t.TempDir()
	models := t.TempDir()
	writeFile(t, filepath.Join(models, "detect.dla.onnx"), "model")

	out, code := runCLI(t, bin, work, map[string]string{
		"NEURON_SHIM_BACKEND":   "stub",
		"NEURON_SHIM_MODEL_DIR": models,
		"NEURON_SHIM_LOG_LEVEL": "0",
	}, "/usr/share/models/detect.dla")
	if code != 0 {
		t.Fatalf("driver exit %d:\n%s", code, out)
	}
	got := parseDriverOutput(out)
	want := map[string]string{
		"create":          "0",
		"create_null_out": "3",
		"handle_set":      "1",
		"load":            "0",
		"load_missing":    "1",
		"load_null_path":  "3",
		"load_empty_path": "1",
		"count_null_out":  "3",
		"count":           "0/1",
		"in_size":         "0/1024",
		"set_input":       "0",
		"set_output":      "0",
		"set_output_null": "3",
		"info":            "0/8/0/0",
		"info_null_out":   "3",
		"inference":       "0",
		"outputs_zeroed":  "1",
		"qos_set":         "0",
		"qos_get":         "0/1/0/1",
		"qos_null_handle": "0",
		"release":         "0",
		"release_again":   "3",
		"null_inference":  "3",
		"null_release":    "3",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	if t.Failed() {
		t.Logf("driver output:\n%s", out)
	}
}
