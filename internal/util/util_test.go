// Copyright 2025 The Signum-Miner Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const parentProcessDir = "/var/generic/signum-miner"

type UtilTest struct {
	suite.Suite
}

func TestUtilSuite(t *testing.T) {
	suite.Run(t, new(UtilTest))
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvNotSetAndFilePathStartsWithTilda() {
	resolvedPath, err := GetResolvedPath("~/test.txt")

	assert.NoError(ts.T(), err)
	homeDir, err := os.UserHomeDir()
	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(homeDir, "test.txt"), resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvNotSetAndRelativePath() {
	resolvedPath, err := GetResolvedPath("test.txt")

	assert.NoError(ts.T(), err)
	cwd, err := os.Getwd()
	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(cwd, "test.txt"), resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvNotSetAndAbsoluteFilePath() {
	resolvedPath, err := GetResolvedPath("/var/dir/test.txt")

	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), "/var/dir/test.txt", resolvedPath)
}

func (ts *UtilTest) TestResolveEmptyFilePath() {
	resolvedPath, err := GetResolvedPath("")

	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), "", resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvSetAndFilePathStartsWithTilda() {
	os.Setenv(ParentProcessDirEnv, parentProcessDir)
	defer os.Unsetenv(ParentProcessDirEnv)

	resolvedPath, err := GetResolvedPath("~/test.txt")

	assert.NoError(ts.T(), err)
	homeDir, err := os.UserHomeDir()
	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(homeDir, "test.txt"), resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvSetAndRelativePath() {
	os.Setenv(ParentProcessDirEnv, parentProcessDir)
	defer os.Unsetenv(ParentProcessDirEnv)

	resolvedPath, err := GetResolvedPath("test.txt")

	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(parentProcessDir, "test.txt"), resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvSetAndAbsoluteFilePath() {
	os.Setenv(ParentProcessDirEnv, parentProcessDir)
	defer os.Unsetenv(ParentProcessDirEnv)

	resolvedPath, err := GetResolvedPath("/var/dir/test.txt")

	assert.NoError(ts.T(), err)
	assert.Equal(ts.T(), "/var/dir/test.txt", resolvedPath)
}
