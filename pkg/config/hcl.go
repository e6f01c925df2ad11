// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the options from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Options, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "gather.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// files is decoded as an expression so both "a" and ["a", "b"] are accepted
	type hclOptions struct {
		Files       hcl.Expression `hcl:"files,optional"`
		Output      string         `hcl:"output,optional"`
		Ignore      []string       `hcl:"ignore,optional"`
		Concurrency int            `hcl:"concurrency,optional"`
	}

	var hclOpts hclOptions
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclOpts)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	files, err := decodePathList(evalCtx, hclOpts.Files)
	if err != nil {
		return nil, err
	}

	return &Options{
		Files:       files,
		Output:      hclOpts.Output,
		Ignore:      hclOpts.Ignore,
		Concurrency: hclOpts.Concurrency,
	}, nil
}

// 📂 decodePathList evaluates a string or list-of-strings expression
func decodePathList(evalCtx *hcl.EvalContext, expr hcl.Expression) (PathList, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, errors.Errorf("evaluating files: %s", diags.Error())
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errPathListType()
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return PathList{val.AsString()}, nil
	case ty.IsTupleType() || ty.IsListType():
		var list PathList
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || elem.Type() != cty.String {
				return nil, errPathListType()
			}
			list = append(list, elem.AsString())
		}
		return list, nil
	default:
		return nil, errPathListType()
	}
}
