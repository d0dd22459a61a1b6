// Command generator emits repository/product_gen.go from the col tags of a
// domain struct. Run via the go:generate directive in domain/product.go.
package main

import (
	"fmt"
	"go/types"
	"os"
	"reflect"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/go/packages"
)

const (
	repositoryPkg = "github.com/hlubek/productcatalog/repository"
	outputFile    = "../repository/product_gen.go"
)

type columnField struct {
	fieldName string
	column    string
	omitEmpty bool
	isString  bool
}

func main() {
	// Special env variable set by "go generate"
	goFile := os.Getenv("GOFILE")

	if len(os.Args) != 2 {
		failErr(fmt.Errorf("expected exactly one argument: [source type]"))
	}

	sourceType := os.Args[1]

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo}
	pkgs, err := packages.Load(cfg, fmt.Sprintf("file=%s", goFile))
	if err != nil {
		failErr(fmt.Errorf("loading packages for inspection: %v", err))
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}

	pkg := pkgs[0]

	obj := pkg.Types.Scope().Lookup(sourceType)
	if obj == nil {
		failErr(fmt.Errorf("%s not found in lookup", sourceType))
	}

	if _, ok := obj.(*types.TypeName); !ok {
		failErr(fmt.Errorf("%v is not a named type", obj))
	}
	structType, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		failErr(fmt.Errorf("type %v is a %T, not a struct", obj, obj.Type().Underlying()))
	}

	fields := collectFields(structType)
	if len(fields) == 0 {
		failErr(fmt.Errorf("type %s has no col-tagged fields", sourceType))
	}

	f := generate(pkg.PkgPath, sourceType, fields)
	if err := f.Save(outputFile); err != nil {
		failErr(fmt.Errorf("writing %s: %v", outputFile, err))
	}
}

func collectFields(structType *types.Struct) []columnField {
	var fields []columnField
	for i := 0; i < structType.NumFields(); i++ {
		field := structType.Field(i)
		tag := reflect.StructTag(structType.Tag(i)).Get("col")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		cf := columnField{
			fieldName: field.Name(),
			column:    parts[0],
			isString:  field.Type().String() == "string",
		}
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				cf.omitEmpty = true
			}
		}
		if cf.omitEmpty && !cf.isString {
			failErr(fmt.Errorf("omitempty is only supported on string fields, got %s", field.Type()))
		}
		fields = append(fields, cf)
	}
	return fields
}

func generate(domainPkg, sourceType string, fields []columnField) *jen.File {
	f := jen.NewFilePathName(repositoryPkg, "repository")
	f.HeaderComment("Code generated by cmd/generator; DO NOT EDIT.")
	lower := strings.ToLower(sourceType)

	f.Commentf("%sColumns lists the table columns in field order of domain.%s.", lower, sourceType)
	f.Var().Id(lower + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, cf := range fields {
			g.Line().Lit(cf.column)
		}
		g.Line()
	})

	f.Commentf("%sValues maps a domain.%s to column values for writes.", lower, sourceType)
	f.Func().Id(lower+"Values").Params(jen.Id("p").Qual(domainPkg, sourceType)).Map(jen.String()).Interface().Block(
		jen.Return(jen.Map(jen.String()).Interface().Values(jen.DictFunc(func(d jen.Dict) {
			for _, cf := range fields {
				value := jen.Id("p").Dot(cf.fieldName)
				if cf.omitEmpty {
					value = jen.Id("nullIfEmpty").Call(value)
				}
				d[jen.Lit(cf.column)] = value
			}
		}))),
	)

	f.Type().Id("rowScanner").Interface(
		jen.Id("Scan").Params(jen.Id("dest").Op("...").Interface()).Error(),
	)

	f.Commentf("scan%s scans a row selected in %sColumns order.", sourceType, lower)
	f.Func().Id("scan"+sourceType).Params(jen.Id("s").Id("rowScanner")).Params(jen.Qual(domainPkg, sourceType), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("p").Qual(domainPkg, sourceType)
		for _, cf := range fields {
			if cf.omitEmpty {
				g.Var().Id(cf.column).Qual("database/sql", "NullString")
			}
		}
		g.Err().Op(":=").Id("s").Dot("Scan").CallFunc(func(c *jen.Group) {
			for _, cf := range fields {
				if cf.omitEmpty {
					c.Line().Op("&").Id(cf.column)
				} else {
					c.Line().Op("&").Id("p").Dot(cf.fieldName)
				}
			}
			c.Line()
		})
		g.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Qual(domainPkg, sourceType).Values(), jen.Err()),
		)
		for _, cf := range fields {
			if cf.omitEmpty {
				g.Id("p").Dot(cf.fieldName).Op("=").Id(cf.column).Dot("String")
			}
		}
		g.Return(jen.Id("p"), jen.Nil())
	})

	f.Func().Id("nullIfEmpty").Params(jen.Id("s").String()).Interface().Block(
		jen.If(jen.Id("s").Op("==").Lit("")).Block(jen.Return(jen.Nil())),
		jen.Return(jen.Id("s")),
	)

	return f
}

func failErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
