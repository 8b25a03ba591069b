package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docgen/internal/source"
)

func unit(text, preferred string) source.SourceUnit {
	return source.SourceUnit{Text: text, Filename: "Unit.sol", PreferredName: preferred}
}

func TestParse_DescriptionAttachedToTarget(t *testing.T) {
	text := `pragma solidity ^0.8.24;

/// helper without doc block
library Helper {
    function twice(uint256 x) internal pure returns (uint256) { return x * 2; }
}

/**
 * @title Target
 * @notice Describes only the target
 */
contract Target {
}
`
	pu, err := Parse(unit(text, "Target"))
	require.NoError(t, err)
	require.Equal(t, "Target", pu.Name)
	require.Equal(t, KindContract, pu.Kind)
	require.Equal(t, "Describes only the target", pu.Description)
}

func TestParse_HelperDocDoesNotLeakIntoTarget(t *testing.T) {
	text := `/**
 * @notice Helper description
 * @custom:chapter helpers
 */
library Helper {}

contract Target {}
`
	pu, err := Parse(unit(text, "Target"))
	require.NoError(t, err)
	require.Equal(t, "Target", pu.Name)
	require.Empty(t, pu.Description)
	require.Equal(t, DefaultChapter, pu.Chapter)
}

func TestParse_DocBlockMustBeAdjacent(t *testing.T) {
	text := `/** @notice File level comment */
pragma solidity ^0.8.24;

contract Target {}
`
	pu, err := Parse(unit(text, ""))
	require.NoError(t, err)
	require.Empty(t, pu.Description)
}

func TestParse_FallsBackToFirstDeclaration(t *testing.T) {
	text := "interface IFirst {}\ncontract Second {}\n"
	pu, err := Parse(unit(text, "Missing"))
	require.NoError(t, err)
	require.Equal(t, "IFirst", pu.Name)
	require.Equal(t, KindInterface, pu.Kind)
}

func TestParse_AbstractContract(t *testing.T) {
	text := "/** @notice Base */\nabstract contract Base {}\n"
	pu, err := Parse(unit(text, "Base"))
	require.NoError(t, err)
	require.Equal(t, "Base", pu.Name)
	require.Equal(t, KindContract, pu.Kind)
	require.Equal(t, "Base", pu.Description)
}

func TestParse_IgnoresCommentedDeclarations(t *testing.T) {
	text := "// contract Old {}\n/* contract Older {} */\ncontract Current {}\n"
	pu, err := Parse(unit(text, ""))
	require.NoError(t, err)
	require.Equal(t, "Current", pu.Name)
}

func TestParse_NoDeclaration(t *testing.T) {
	_, err := Parse(unit("// nothing here\npragma solidity ^0.8.24;\n", ""))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoDeclaration))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryParse))
}

func TestParse_TagPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		description string
		chapter     string
	}{
		{
			name:        "notice wins over title",
			doc:         "/**\n * @title The title\n * @notice The notice\n */",
			description: "The notice",
			chapter:     DefaultChapter,
		},
		{
			name:        "title when no notice",
			doc:         "/** @title Only title */",
			description: "Only title",
			chapter:     DefaultChapter,
		},
		{
			name:        "custom chapter wins",
			doc:         "/**\n * @chapter basic\n * @custom:chapter decryption\n */",
			description: "",
			chapter:     "decryption",
		},
		{
			name:        "chapter with colon",
			doc:         "/**\n * @notice N\n * @chapter: user-decryption\n */",
			description: "N",
			chapter:     "user-decryption",
		},
		{
			name:        "bare chapter line",
			doc:         "/**\n * @notice N\n * chapter: encryption\n */",
			description: "N",
			chapter:     "encryption",
		},
		{
			name:        "untagged text when no notice or title",
			doc:         "/**\n * Adds two numbers\n */",
			description: "Adds two numbers",
			chapter:     DefaultChapter,
		},
		{
			name:        "title wins over untagged text",
			doc:         "/**\n * Helper text\n * @title T\n */",
			description: "T",
			chapter:     DefaultChapter,
		},
		{
			name:        "chapter colon without space",
			doc:         "/**\n * @chapter:basic\n * @notice N\n */",
			description: "N",
			chapter:     "basic",
		},
		{
			name:        "several tags on one line",
			doc:         "/** @chapter:basic @notice N */",
			description: "N",
			chapter:     "basic",
		},
		{
			name:        "custom chapter with colon value",
			doc:         "/** @custom:chapter:access-control */",
			description: "",
			chapter:     "access-control",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pu, err := Parse(unit(tt.doc+"\ncontract C {}\n", "C"))
			require.NoError(t, err)
			require.Equal(t, tt.description, pu.Description)
			require.Equal(t, tt.chapter, pu.Chapter)
		})
	}
}

func TestParse_ContinuationLines(t *testing.T) {
	text := `/**
 * @notice Compares two encrypted
 * values without revealing them
 *
 * @dev Not part of the description
 */
contract C {}
`
	pu, err := Parse(unit(text, "C"))
	require.NoError(t, err)
	require.Equal(t, "Compares two encrypted values without revealing them", pu.Description)
}

func TestParse_UnterminatedCommentDegrades(t *testing.T) {
	text := "/** @notice never closed\ncontract C {}\n"
	pu, err := Parse(unit(text, "C"))
	require.NoError(t, err)
	require.Equal(t, "C", pu.Name)
	require.Empty(t, pu.Description)
	require.Equal(t, DefaultChapter, pu.Chapter)
}

func TestParse_CustomDefaultChapter(t *testing.T) {
	pu, err := New("misc").Parse(unit("contract C {}", ""))
	require.NoError(t, err)
	require.Equal(t, "misc", pu.Chapter)
}

func TestParse_OperationsAndEvents(t *testing.T) {
	text := `contract Outside {
    event Ignored();
    function ignored() public {}
}

/** @notice Counter */
contract Counter {
    event Incremented(uint256 value);
    event Reset();

    /**
     * @notice Adds to the counter
     * @param amount How much to add
     * @param to Who receives it
     * @return The new value
     */
    function add(
        uint256 amount, // inline comment
        address payable to
    ) external returns (uint256) {
        if (amount > 0) { emit Incremented(amount); }
        return amount;
    }

    /// @notice line comments are not doc blocks
    function reset(bytes calldata data) public {
        emit Reset();
    }

    /** @dev Only dev text */
    function peek() external view returns (uint256);
}
`
	pu, err := Parse(unit(text, "Counter"))
	require.NoError(t, err)
	require.Equal(t, "Counter", pu.Description)

	require.Equal(t, []Event{
		{Name: "Incremented", Description: "Event emitted by Incremented"},
		{Name: "Reset", Description: "Event emitted by Reset"},
	}, pu.Events)

	require.Len(t, pu.Operations, 3)

	add := pu.Operations[0]
	require.Equal(t, "add", add.Name)
	require.Equal(t, "Adds to the counter", add.Description)
	require.Equal(t, "The new value", add.Returns)
	require.Equal(t, "function add(uint256 amount, address payable to) external returns (uint256)", add.Signature)
	require.Equal(t, []Parameter{
		{Name: "amount", Type: "uint256", Description: "How much to add"},
		{Name: "to", Type: "address payable", Description: "Who receives it"},
	}, add.Parameters)

	reset := pu.Operations[1]
	require.Equal(t, "reset", reset.Name)
	require.Empty(t, reset.Description)
	require.Equal(t, "function reset(bytes calldata data) public", reset.Signature)

	peek := pu.Operations[2]
	require.Equal(t, "Only dev text", peek.Description)
	require.Equal(t, "function peek() external view returns (uint256)", peek.Signature)
}

func TestParamTypes_StripsDataLocation(t *testing.T) {
	types := paramTypes("bytes memory data, uint256[] calldata values, uint8")
	require.Equal(t, map[string]string{"data": "bytes", "values": "uint256[]"}, types)
}

func TestParse_EventDescriptionNamesTheEvent(t *testing.T) {
	pu, err := Parse(unit("contract T { event Stored(uint256 v); }", "T"))
	require.NoError(t, err)
	require.Equal(t, []Event{{Name: "Stored", Description: "Event emitted by Stored"}}, pu.Events)
}

func TestParse_CommentOpenerInsideDocText(t *testing.T) {
	text := "/**\n * @notice Handles contracts/*.sol\n * @custom:chapter tooling\n */\ncontract Loader {}\n"
	pu, err := Parse(unit(text, "Loader"))
	require.NoError(t, err)
	require.Equal(t, "Handles contracts/*.sol", pu.Description)
	require.Equal(t, "tooling", pu.Chapter)
}
